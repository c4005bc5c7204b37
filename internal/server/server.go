// Package server sets up the HTTP server, router, and all route
// definitions. This is the composition root: the full dependency chain
//
//	sqlite.DB → AuditedRunner/services → handlers → routes
//
// is wired here and nowhere else.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/audit"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/config"
	"github.com/sakif/snippetbin/internal/handler"
	"github.com/sakif/snippetbin/internal/middleware"
	"github.com/sakif/snippetbin/internal/model"
	sqliteRepo "github.com/sakif/snippetbin/internal/repository/sqlite"
	"github.com/sakif/snippetbin/internal/service"
)

// Server owns the router, the database connection, and the config it was
// built from. The database is closed during graceful shutdown.
type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	passwords *auth.PasswordService
}

// New assembles the entire dependency chain and registers all routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	if err := s.bootstrapAdmin(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping admin user: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	GET    /api                          → links to the collection endpoints
//	POST   /api/tokens                   → issue JWT for username/password
//	GET    /api/snippets                 → list (open)
//	POST   /api/snippets                 → create (authenticated)
//	GET    /api/snippets/{id}            → retrieve (open)
//	GET    /api/snippets/{id}/highlight  → highlighted HTML (open)
//	PUT    /api/snippets/{id}            → update (owner)
//	DELETE /api/snippets/{id}            → delete (owner)
//	GET    /api/users                    → list (active only unless staff opts in)
//	POST   /api/users                    → create (staff)
//	GET    /api/users/{id}               → retrieve (open)
//	DELETE /api/users/{id}               → soft delete (staff)
//	GET    /api/audit-log                → list audit records (staff)
//
// There is deliberately no mutating route under /api/audit-log.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	s.passwords = passwords // bootstrapAdmin hashes with the same service

	// Cross-cutting audit machinery: one recorder, one runner, shared by
	// every service that performs tracked mutations.
	recorder := audit.NewRecorder(s.logger)
	runner := service.NewAuditedRunner(s.db, recorder, s.logger)

	snippetService := service.NewSnippetService(s.db, runner, s.logger)
	userService := service.NewUserService(s.db, runner, passwords, s.logger)
	auditLogService := service.NewAuditLogService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	auditLogHandler := handler.NewAuditLogHandler(auditLogService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	// Global middleware, in order: request ID, real IP, panic recovery,
	// request logging, metrics, then actor resolution. ResolveActor never
	// rejects — it only annotates the context; authorization decisions
	// belong to the services.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics())
	s.router.Use(auth.ResolveActor(tokens, s.db.Users(), s.logger))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", handler.HandleAPIRoot)

		r.Post("/tokens", authHandler.HandleCreateToken)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Get("/snippets/{id}/highlight", snippetHandler.HandleHighlight)
		r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)

		r.Get("/users", userHandler.HandleList)
		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users/{id}", userHandler.HandleGetByID)
		r.Delete("/users/{id}", userHandler.HandleDelete)

		r.Get("/audit-log", auditLogHandler.HandleList)
	})

	return nil
}

// bootstrapAdmin creates the initial staff account if configured and
// missing. This is the one user write that bypasses the audited API path:
// it runs at startup with no acting user, the same way a console
// provisioning command would.
func (s *Server) bootstrapAdmin(ctx context.Context) error {
	username := s.config.Auth.BootstrapAdminUsername
	password := s.config.Auth.BootstrapAdminPassword
	if password == "" {
		return nil
	}

	_, err := s.db.Users().GetByUsername(ctx, username)
	if err == nil {
		return nil // already provisioned
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
	}
	if err := s.db.Users().Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("bootstrap admin user created",
		slog.String("id", admin.ID),
		slog.String("username", username),
	)
	return nil
}

// Start runs the HTTP server (and the metrics side-channel listener when
// enabled) until SIGINT/SIGTERM, then shuts down gracefully: stop accepting
// connections, drain in-flight requests for up to 30s, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Prometheus metrics are served on their own listener so the scrape
	// endpoint is never exposed through the public API port.
	var metricsSrv *http.Server
	if s.config.Telemetry.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", s.config.Telemetry.MetricsPort),
			Handler: mux,
		}
		go func() {
			s.logger.Info("metrics listener starting",
				slog.Int("port", s.config.Telemetry.MetricsPort),
			)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("metrics listener failed", slog.String("error", err.Error()))
			}
		}()
	}

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(ctx)
		}
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
