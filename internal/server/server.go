// Package server wires the application together: catalog, store, services,
// handlers, middleware and routes.
//
// This is the composition root. Each layer receives only what it needs:
// services get the repository interface, handlers get services, and nothing
// below the handler layer knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/catalog"
	"github.com/prasetya/safestate/internal/handler"
	"github.com/prasetya/safestate/internal/middleware"
	sqliteRepo "github.com/prasetya/safestate/internal/repository/sqlite"
	"github.com/prasetya/safestate/internal/service"
)

// Config holds server configuration, loaded from the environment by
// cmd/server.
type Config struct {
	Port          int
	DBPath        string // SQLite database file; ":memory:" works too
	CatalogPath   string // property catalog JSON
	SeedUsersPath string // optional bootstrap users JSON, "" to skip
	JWTSecret     string
}

// Server owns the router and the resources that must be released on
// shutdown (the database connection).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain.
//
// The catalog loads before anything else: a missing or unparsable catalog
// is fatal at startup, never an empty marketplace that looks healthy.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.String("path", cfg.CatalogPath),
		slog.Int("properties", cat.Len()),
	)

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.SeedUsersPath != "" {
		if err := db.SeedFromFile(cfg.SeedUsersPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding users: %w", err)
		}
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(cat); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the service and handler layers,
// and declares the API surface.
//
// MIDDLEWARE ORDER: RequestID first so every later log line can carry it,
// then RealIP, the request logger, and Recoverer to turn panics into 500s.
func (s *Server) setupRoutes(cat *catalog.Catalog) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	accountService := service.NewAccountService(s.db, tokens, passwords, s.logger)
	ledgerService := service.NewLedgerService(s.db, cat, s.logger)
	paymentService := service.NewPaymentService(s.db, cat, s.logger)

	accountHandler := handler.NewAccountHandler(accountService, s.logger)
	propertyHandler := handler.NewPropertyHandler(cat, ledgerService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(ledgerService, s.logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public: browsing and quoting need no account.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Post("/register", accountHandler.HandleRegister)
			r.Post("/login", accountHandler.HandleLogin)
			r.Post("/logout", accountHandler.HandleLogout)
			r.Get("/properties", propertyHandler.HandleList)
			r.Get("/properties/{id}", propertyHandler.HandleGet)
			r.Get("/properties/{id}/quote", paymentHandler.HandleQuote)
		})

		// Protected: everything that reads or writes a user's ledger.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", accountHandler.HandleMe)
			r.Put("/me", accountHandler.HandleUpdateProfile)
			r.Get("/favorites", favoriteHandler.HandleList)
			r.Post("/favorites/{propertyID}", favoriteHandler.HandleAdd)
			r.Delete("/favorites/{propertyID}", favoriteHandler.HandleRemove)
			r.Get("/portfolio", propertyHandler.HandlePortfolio)
			r.Post("/properties/{id}/purchase", paymentHandler.HandlePurchase)
			r.Get("/payments", paymentHandler.HandleListPayments)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for tests that want to drive
// the server with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without serving.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
