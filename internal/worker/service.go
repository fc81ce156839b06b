// Package worker provides the HTTP service that fronts the lookbook
// composition engine.
package worker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/lookbook/internal/composer"
	"github.com/thebtf/lookbook/internal/config"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/internal/rerank"
	"github.com/thebtf/lookbook/internal/scoring"
	"github.com/thebtf/lookbook/internal/sequence"
)

// Service configuration constants
const (
	// MaxRequestBody bounds catalog payload size.
	MaxRequestBody = 4 << 20 // 4 MiB
)

// Service is the worker service orchestrator. The engine components it
// wires are stateless; all per-actor state lives in the history store.
type Service struct {
	version string
	config  *config.Config

	store history.Store

	eval        *constraint.Evaluator
	scorer      *scoring.Scorer
	assigner    *composer.Assigner
	diversifier *composer.Diversifier
	planner     *sequence.Planner
	selector    *rerank.Selector

	limiter *RateLimiter

	router    *chi.Mux
	server    *http.Server
	startTime time.Time
}

// NewService creates a worker service over the given history store.
func NewService(version string, cfg *config.Config, store history.Store) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if store == nil {
		store = history.NewMemoryStore()
	}

	eval := constraint.NewEvaluator(cfg.WetSafety)
	scorer := scoring.NewScorer(cfg.Scoring)
	assigner := composer.NewAssigner(scorer)

	perSecond := float64(cfg.RateLimitPerMin) / 60.0
	if perSecond <= 0 {
		perSecond = 2
	}

	svc := &Service{
		version:     version,
		config:      cfg,
		store:       store,
		eval:        eval,
		scorer:      scorer,
		assigner:    assigner,
		diversifier: composer.NewDiversifier(assigner, cfg.Diversity),
		planner:     sequence.NewPlanner(eval, scorer, cfg.Diversity),
		selector:    rerank.NewSelector(eval, scorer, cfg.Rerank),
		limiter:     NewRateLimiter(perSecond, cfg.RateLimitBurst),
		router:      chi.NewRouter(),
		startTime:   time.Now(),
	}

	svc.setupMiddleware()
	svc.setupRoutes()
	return svc
}

// setupMiddleware configures HTTP middleware.
func (s *Service) setupMiddleware() {
	timeout := time.Duration(s.config.RequestTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(timeout))
	s.router.Use(middleware.RealIP)
	s.router.Use(SecurityHeaders)
	s.router.Use(RequestID)
	s.router.Use(MaxBodySize(MaxRequestBody))
	s.router.Use(RequireJSONContentType)
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.limiter))

		r.Post("/api/lineups", s.handleComposeLineup)
		r.Post("/api/lineups/rerank", s.handleRerank)
		r.Post("/api/lineups/{signature}/feedback", s.handleFeedback)
		r.Post("/api/sequences", s.handleSequence)
		r.Get("/api/stats", s.handleStats)
	})
}

// Router exposes the handler for tests and embedding.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until it shuts down or fails.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.config.WorkerPort)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Str("version", s.version).Msg("Worker service listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Worker service shutting down")
	return s.server.Shutdown(ctx)
}
