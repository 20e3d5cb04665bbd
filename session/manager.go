package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/typedex/dexgraph/metrics"
	"github.com/typedex/dexgraph/physics"
	"github.com/typedex/dexgraph/typechart"
)

// ErrNoSuchSession is returned when a session id is not registered.
var ErrNoSuchSession = errors.New("no such session")

// ManagerOptions configure session lifecycle handling.
type ManagerOptions struct {
	IdleTTL  time.Duration // Sessions idle longer than this are reaped; 0 disables reaping
	TickRate time.Duration // Interval between automatic ticks
	AutoTick bool          // Drive each session with its own ticker goroutine
}

// Manager owns the set of live sessions. When auto-tick is enabled every
// session gets a ticker goroutine scoped to the manager context, cancelled on
// delete and on shutdown.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cancels  map[string]context.CancelFunc
	chart    *typechart.Chart
	log      *slog.Logger
	opts     ManagerOptions
	ctx      context.Context

	defaultName    string
	defaultProfile physics.Profile
	hasDefault     bool
}

// NewManager creates a session manager over the given chart.
func NewManager(chart *typechart.Chart, logger *slog.Logger, opts ManagerOptions) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = time.Second / 60
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cancels:  make(map[string]context.CancelFunc),
		chart:    chart,
		log:      logger.With("component", "sessions"),
		opts:     opts,
	}
}

// Start runs the idle reaper until the context is cancelled and scopes all
// auto-tick loops to it. It blocks and is meant to run in its own goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	if m.opts.IdleTTL <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(m.opts.IdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapIdle(time.Now())
		}
	}
}

// Create registers a new session and, when auto-tick is on, starts its tick
// loop. Sessions that do not name a profile get the manager's default.
func (m *Manager) Create(opts Options) *Session {
	m.mu.RLock()
	if opts.ProfileName == "" && m.hasDefault {
		opts.ProfileName = m.defaultName
		opts.Profile = m.defaultProfile
	}
	m.mu.RUnlock()

	s := NewSession(m.chart, opts)

	m.mu.Lock()
	m.sessions[s.ID] = s
	if m.opts.AutoTick && m.ctx != nil {
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancels[s.ID] = cancel
		go m.tickLoop(ctx, s)
	}
	m.mu.Unlock()

	metrics.ActiveSessions.Inc()
	m.log.Info("session created", "id", s.ID, "profile", opts.ProfileName)
	return s
}

// Get returns a registered session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSuchSession
	}
	return s, nil
}

// Delete removes a session and stops its tick loop.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrNoSuchSession
	}
	delete(m.sessions, id)
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
	m.mu.Unlock()

	metrics.ActiveSessions.Dec()
	m.log.Info("session deleted", "id", s.ID)
	return nil
}

// Retune makes the profile the default for new sessions and applies it to
// every live session in place.
func (m *Manager) Retune(name string, p physics.Profile) {
	m.mu.Lock()
	m.defaultName = name
	m.defaultProfile = p
	m.hasDefault = true
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.Unlock()

	for _, s := range live {
		s.SetProfile(name, p)
	}
	m.log.Info("physics retuned", "profile", name, "sessions", len(live))
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops every tick loop. Remaining sessions stay readable so that
// in-flight requests can finish.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
}

// tickLoop advances one session at the configured rate until its context is
// cancelled.
func (m *Manager) tickLoop(ctx context.Context, s *Session) {
	ticker := time.NewTicker(m.opts.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(1, false)
		}
	}
}

// reapIdle deletes sessions whose last interaction is older than the TTL.
func (m *Manager) reapIdle(now time.Time) {
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if now.Sub(s.LastUsed()) > m.opts.IdleTTL {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := m.Delete(id); err == nil {
			m.log.Info("session reaped", "id", id)
		}
	}
}
