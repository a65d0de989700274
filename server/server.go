package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"adsbot/config"
	"adsbot/database"
	"adsbot/domain/interfaces"
	"adsbot/server/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP boundary. Each handler converts validated input into
// exactly one core operation executed inside one unit of work.
type Server struct {
	cfg        *config.Config
	db         *database.DB
	uowFactory interfaces.UnitOfWorkFactory
	numbers    interfaces.NumberSource
	httpServer *http.Server
}

// New creates the HTTP server with all routes configured
func New(cfg *config.Config, db *database.DB, uowFactory interfaces.UnitOfWorkFactory, numbers interfaces.NumberSource) *Server {
	s := &Server{
		cfg:        cfg,
		db:         db,
		uowFactory: uowFactory,
		numbers:    numbers,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Telegram-Init-Data"},
	})
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		// Authenticated user routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.cfg.JWTSecret))

			r.Get("/balance", s.handleBalance)
			r.Post("/ads/{type}", s.handleAdView)
			r.Post("/tasks/complete", s.handleCompleteTask)
			r.Post("/invite/claim", s.handleClaimInvite)
			r.Get("/referrals", s.handleListReferrals)
			r.Post("/tickets", s.handleBuyTickets)
			r.Get("/lottery/{period}", s.handleLotteryResults)
			r.Get("/withdrawals/rules", s.handleWithdrawalRules)
			r.Post("/withdrawals", s.handleCreateWithdrawal)
			r.Get("/withdrawals", s.handleListWithdrawals)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.cfg.JWTSecret))
			r.Use(middleware.RequireAdmin(s.cfg.IsAdmin))

			r.Post("/admin/draw", s.handleConductDraw)
			r.Get("/admin/withdrawals", s.handleListPendingWithdrawals)
			r.Post("/admin/withdrawals/{id}/approve", s.handleApproveWithdrawal)
			r.Post("/admin/withdrawals/{id}/reject", s.handleRejectWithdrawal)
		})
	})

	return r
}

// Start begins serving requests and blocks until the server stops
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withUnitOfWork runs fn inside one transaction: rollback on error, commit on
// success. Handlers never touch the transaction directly.
func (s *Server) withUnitOfWork(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("rollback failed")
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}
	return nil
}
