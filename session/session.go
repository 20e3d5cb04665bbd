// Package session pairs a layout simulation with its presentation state.
// The simulation owns position and velocity, the session owns selection and
// highlight as a side-table keyed by category, and Snapshot merges both into
// the published graph.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/typedex/dexgraph/metrics"
	"github.com/typedex/dexgraph/models"
	"github.com/typedex/dexgraph/physics"
	"github.com/typedex/dexgraph/typechart"
)

// ErrUnknownCategory is returned for interactions against a category the
// session's chart does not define.
var ErrUnknownCategory = errors.New("unknown category")

// Options configure a new session.
type Options struct {
	Width       float64
	Height      float64
	ProfileName string
	Profile     physics.Profile
	Drift       bool
	DriftSeed   int64
}

// Session is a mutex-guarded live layout: one simulation, one selection
// side-table. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu          sync.Mutex
	sim         *physics.Simulation
	chart       *typechart.Chart
	profileName string
	selected    string
	highlighted map[string]bool
	topology    *models.TypeGraph
	drift       *physics.Drift
	createdAt   time.Time
	lastUsed    time.Time
}

// NewSession creates a session over the full chart with the given options.
func NewSession(chart *typechart.Chart, opts Options) *Session {
	now := time.Now()
	s := &Session{
		ID:          uuid.New().String(),
		sim:         physics.New(chart, opts.Width, opts.Height, opts.Profile),
		chart:       chart,
		profileName: opts.ProfileName,
		highlighted: make(map[string]bool),
		createdAt:   now,
		lastUsed:    now,
	}
	if s.profileName == "" {
		s.profileName = "default"
	}
	if opts.Drift {
		seed := opts.DriftSeed
		if seed == 0 {
			seed = now.UnixNano()
		}
		s.drift = physics.NewDrift(seed)
	}

	// Edges never change for the lifetime of a session. They are captured
	// once as a graph skeleton whose connectivity queries drive the
	// highlight set and the node degrees.
	s.topology = &models.TypeGraph{}
	for _, e := range s.sim.Edges() {
		s.topology.Edges = append(s.topology.Edges, models.TypeEdge{From: e.From, To: e.To, Weight: e.Weight})
	}
	return s
}

// Tick advances the simulation by n ticks and counts as an interaction.
func (s *Session) Tick(n int) {
	s.tick(n, true)
}

// tick advances the simulation. Automatic ticks do not refresh lastUsed,
// otherwise auto-ticked sessions would never go idle.
func (s *Session) tick(n int, touch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.sim.Step()
	}
	if touch {
		s.lastUsed = time.Now()
	}

	metrics.SimulationTicks.Add(float64(n))
	metrics.LayoutEnergy.Set(s.sim.Energy())
}

// Select toggles the selection of a category. Selecting clears every other
// flag and highlights exactly the categories connected to it through an edge
// in either direction; selecting the same category again clears everything.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.chart.Has(id) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	s.lastUsed = time.Now()

	if s.selected == id {
		s.selected = ""
		s.highlighted = make(map[string]bool)
		return nil
	}

	s.selected = id
	s.highlighted = make(map[string]bool)
	for _, other := range s.topology.ConnectedIDs(id) {
		s.highlighted[other] = true
	}
	return nil
}

// ClearSelection drops the selected and highlighted flags.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.highlighted = make(map[string]bool)
	s.lastUsed = time.Now()
}

// Selected returns the currently selected category, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// BeginDrag starts dragging a category.
func (s *Session) BeginDrag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	if !s.sim.BeginDrag(id) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	return nil
}

// DragTo pins the dragged category at a position.
func (s *Session) DragTo(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	if !s.sim.DragTo(id, x, y) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	return nil
}

// EndDrag releases the dragged category so physics resumes.
func (s *Session) EndDrag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.EndDrag(id)
	s.lastUsed = time.Now()
}

// Reset restores the circular layout and clears the selection.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Reset()
	s.selected = ""
	s.highlighted = make(map[string]bool)
	s.lastUsed = time.Now()
}

// Resize updates the simulation viewport.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Resize(width, height)
	s.lastUsed = time.Now()
}

// SetProfile swaps the physics coefficients at runtime.
func (s *Session) SetProfile(name string, p physics.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileName = name
	s.sim.SetProfile(p)
}

// Energy returns the simulation's kinetic energy.
func (s *Session) Energy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Energy()
}

// LastUsed returns the time of the most recent interaction.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Snapshot merges simulation and presentation state into a published graph.
func (s *Session) Snapshot() *models.TypeGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.sim.Size()
	g := &models.TypeGraph{
		ID:        s.ID,
		Name:      "type-effectiveness",
		Width:     width,
		Height:    height,
		Profile:   s.profileName,
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now(),
	}

	for _, n := range s.sim.Nodes() {
		degree := len(s.topology.ConnectedIDs(n.ID))
		node := models.TypeNode{
			ID:          n.ID,
			Label:       n.ID,
			Selected:    n.ID == s.selected,
			Highlighted: s.highlighted[n.ID],
			Connections: degree,
		}
		node.SetPosition(n.X, n.Y)
		node.SetAppearance(8+float64(degree)*0.6, typechart.Color(n.ID))
		g.Nodes = append(g.Nodes, node)
	}
	g.Edges = append(g.Edges, s.topology.Edges...)

	if s.drift != nil {
		s.drift.Apply(g)
	}
	return g
}
