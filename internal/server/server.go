// Package server exposes the gate engine and run history over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/nearly/internal/config"
	"github.com/thebtf/nearly/internal/gate"
	"github.com/thebtf/nearly/internal/store"
	"github.com/thebtf/nearly/internal/watcher"
)

// Server wires the gate engine, the run store and the rules watcher behind a
// chi router.
type Server struct {
	cfg    *config.Config
	engine *gate.Engine
	store  *store.Store

	router       *chi.Mux
	server       *http.Server
	rulesWatcher *watcher.Watcher
	startTime    time.Time
}

// New assembles a Server. The store may be nil, in which case runs are not
// persisted and the history endpoints report failure.
func New(cfg *config.Config, engine *gate.Engine, st *store.Store) *Server {
	s := &Server{
		cfg:       cfg,
		engine:    engine,
		store:     st,
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/rules", s.handleGetRules)
	})
}

// WatchRules reloads the rules file into the engine whenever it changes.
// A broken edit keeps the previous rules active.
func (s *Server) WatchRules(path string) error {
	w, err := watcher.New(path, func() {
		rules, err := gate.LoadRules(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Rules reload failed, keeping previous rules")
			return
		}
		s.engine.SetRules(rules)
	})
	if err != nil {
		return fmt.Errorf("watch rules: %w", err)
	}
	s.rulesWatcher = w
	return nil
}

// Start begins serving in the background.
func (s *Server) Start() error {
	port := s.cfg.EffectiveListenPort()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	log.Info().Int("port", port).Msg("Gate HTTP server started")
	return nil
}

// Shutdown stops the watcher and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rulesWatcher != nil {
		_ = s.rulesWatcher.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the HTTP handler, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
