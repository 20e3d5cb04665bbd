// Package server exposes the layout sessions, the species store and the
// calculators over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/typedex/dexgraph/pokeapi"
	"github.com/typedex/dexgraph/session"
	"github.com/typedex/dexgraph/store"
	"github.com/typedex/dexgraph/typechart"
)

// Options configure the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Defaults for sessions created without explicit dimensions.
	DefaultWidth  float64
	DefaultHeight float64

	// DefaultDrift applies to sessions whose create request leaves the
	// drift field unset.
	DefaultDrift bool
}

// Server wires the session manager, the species store and the remote client
// into an HTTP API.
type Server struct {
	sessions *session.Manager
	store    *store.Store
	client   *pokeapi.Client
	chart    *typechart.Chart
	log      *slog.Logger
	opts     Options

	httpServer *http.Server
}

// New assembles the server. The store and client may be nil, in which case
// the species endpoints answer 503.
func New(sessions *session.Manager, st *store.Store, client *pokeapi.Client, chart *typechart.Chart, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 120 * time.Second
	}
	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = 800
	}
	if opts.DefaultHeight <= 0 {
		opts.DefaultHeight = 600
	}

	s := &Server{
		sessions: sessions,
		store:    st,
		client:   client,
		chart:    chart,
		log:      logger.With("component", "server"),
		opts:     opts,
	}

	// Recovery wraps logging wraps the mux, so panics are caught before the
	// access log line is written.
	var handler http.Handler = s.routes()
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealthz)
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      root,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s
}

// routes builds the API mux using method and path patterns.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/tick", s.handleTick)
	mux.HandleFunc("POST /api/sessions/{id}/select", s.handleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/drag", s.handleDrag)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /api/sessions/{id}/render", s.handleRenderSession)

	mux.HandleFunc("GET /api/types", s.handleListTypes)
	mux.HandleFunc("GET /api/types/{name}", s.handleTypeMatchups)

	mux.HandleFunc("GET /api/pokemon/{id}", s.handlePokemon)
	mux.HandleFunc("GET /api/pokemon/{id}/similar", s.handleSimilar)
	mux.HandleFunc("GET /api/pokemon/{id}/percentile", s.handlePercentile)
	mux.HandleFunc("GET /api/pokemon/{id}/sprite", s.handleSprite)

	mux.HandleFunc("GET /api/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/catchrate", s.handleCatchRate)

	return mux
}

// Handler returns the full request handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts serving and blocks until the listener closes.
func (s *Server) Run() error {
	s.log.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the session tick loops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	err := s.httpServer.Shutdown(ctx)
	s.sessions.Shutdown()
	return err
}
