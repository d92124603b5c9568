// Package server sets up the local API: router, middleware and the HTTP
// server's lifecycle.
//
// The browser editor talks to this API instead of the backend. Every
// request reaches the same ResumeService, so the editor, the autosave
// timer and the sync calls share one draft state.
//
// MIDDLEWARE ORDER:
//  1. RequestID  assigns an id, echoed in every log line
//  2. RealIP     extracts the client IP from proxy headers
//  3. Recoverer  turns a panic into a 500
//  4. CORS       the editor is served from another origin
//  5. Logger     one line per request
//  6. ForwardBearer  picks up the editor's backend token
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/zadnan82/newcv-sub002/internal/app"
	"github.com/zadnan82/newcv-sub002/internal/auth"
	"github.com/zadnan82/newcv-sub002/internal/handler"
	"github.com/zadnan82/newcv-sub002/internal/middleware"
)

// Server is the local API server. It does not own the App; the caller
// closes it after Start returns.
type Server struct {
	router *chi.Mux
	app    *app.App
	logger *slog.Logger
}

// New builds the router for a.
func New(a *app.App, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		app:    a,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.app.Config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}).Handler)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.ForwardBearer(s.app.Tokens))

	// An unset *upload.Client must stay a nil interface.
	var uploader handler.Uploader
	if s.app.Uploader != nil {
		uploader = s.app.Uploader
	}
	h := handler.NewResumeHandler(s.app.Service, s.app.Session, uploader, s.app.Tokens, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Route("/api", h.Routes)
}

// Start serves on port until SIGINT/SIGTERM or until ctx is cancelled,
// then shuts down gracefully. In-flight requests get 30 seconds.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // photo uploads go through the image host
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", port)),
			slog.String("backend", s.app.Config.APIURL),
			slog.String("storage", s.app.Config.Storage),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
