// Package server wires the HTTP router, middleware and handlers together.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/duckola/adolfo-portfolio/internal/config"
	"github.com/duckola/adolfo-portfolio/internal/domain"
	"github.com/duckola/adolfo-portfolio/internal/metrics"
	"github.com/duckola/adolfo-portfolio/internal/usecase"
)

// Server owns the router and its dependencies.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *logrus.Logger
}

// New assembles the router. The portfolio content and the aggregator are
// created by the caller; the server only wires them to routes.
func New(cfg config.Config, portfolio *domain.Portfolio, aggregator *usecase.Aggregator, logger *logrus.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(requestLogger(logger))

	h := newHandler(cfg, portfolio, aggregator, logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/profile", h.handleProfile)
		r.Get("/projects", h.handleProjects)
		r.Get("/certificates", h.handleCertificates)
		r.Get("/achievements", h.handleAchievements)
		r.Get("/activity", h.handleActivity)
		r.Get("/activity/monthly", h.handleMonthlyActivity)
		r.Get("/activity/calendar", h.handleContributionCalendar)
		r.Post("/contact", h.handleContact)
		r.Get("/visits", h.handleVisits)
	})
	s.router.Get("/healthz", h.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return s
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"serviceName": config.ServiceName,
			"port":        s.cfg.Port,
			"account":     s.cfg.Account,
		}).Info("server starting")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.WithField("signal", sig.String()).Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
