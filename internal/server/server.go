// Package server exposes the plan pipeline over HTTP.
//
// Routes:
//
//	GET  /                           form page
//	POST /                           form submit: inline plans, room table, downloads
//	GET  /api/plan                   layout, rooms and prompt as JSON
//	POST /api/plan                   same, options as JSON body
//	GET  /api/plan/site.svg          site plan
//	GET  /api/plan/floors/{n}.svg    plan of floor n
//	GET  /api/plan/export.{format}   download (pdf, json, xlsx, svg, png)
//	POST /api/prompt                 image prompt
//	POST /api/generate               image generation (rate limited)
//	GET  /healthz                    liveness
//
// GET endpoints read the plan options from the query string: width, length,
// unit, floors, features (repeated or comma separated), style, detail and
// views.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/housesketch/pkg/config"
	"github.com/matzehuels/housesketch/pkg/pipeline"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// Server serves the web form and the JSON API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits /api/generate and form generation to rps requests
// per second with the given burst. A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSubmit)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/plan", s.handlePlan)
		r.Post("/plan", s.handlePlan)
		r.Get("/plan/site.svg", s.handleSiteSVG)
		r.Get("/plan/floors/{n:[0-9]+}.svg", s.handleFloorSVG)
		r.Get("/plan/export.{format:[a-z]+}", s.handleExport)
		r.Post("/prompt", s.handlePrompt)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/generate", s.handleGenerate)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
