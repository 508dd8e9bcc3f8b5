// Package httpserver exposes the query and diagnostic API consumed by the
// availability UI and the CLI.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/config"
)

type Server struct {
	http *http.Server
	log  *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger, h *Handlers) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLog(log))

	c := corslib.New(corslib.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/check", h.Check)
		r.Get("/results", h.Results)
		r.Get("/test-email", h.TestEmail)
	})

	return &Server{
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           otelhttp.NewHandler(r, "http"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
		log: log,
	}
}

// Start blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info("http listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http shutting down")
	return s.http.Shutdown(ctx)
}
