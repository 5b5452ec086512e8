// Package httpapi wires the HTTP surface of the banking ledger service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/service/account"
	"github.com/sidbank/ledger-core/internal/service/history"
	"github.com/sidbank/ledger-core/internal/service/ledger"
)

// Server wires handlers and middleware using Chi. It performs no business
// logic itself: requests are validated, delegated and translated back.
type Server struct {
	ledger   ledger.Service
	history  history.Service
	accounts account.Service
	store    bank.Store
	log      *slog.Logger
	rt       *chi.Mux

	idemMu sync.RWMutex
	idem   map[string]storedReply
}

// New constructs the HTTP server with routes and middleware. pub may be nil
// when no event stream is configured.
func New(store bank.Store, pub ledger.Publisher, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	if auth := authJWTFromEnv(); auth != nil {
		r.Use(auth)
	}

	s := &Server{
		ledger:   ledger.New(store, pub, logger),
		history:  history.New(store, store),
		accounts: account.New(store),
		store:    store,
		log:      logger,
		rt:       r,
		idem:     make(map[string]storedReply),
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Accounts
	s.rt.Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/accounts/{id}", s.getAccount)
	// Operation history
	s.rt.Get("/v1/accounts/{id}/operations", s.getHistory)
	s.rt.Get("/v1/accounts/{id}/operations/paged", s.getPagedHistory)
	// Mutations, retry-safe via Idempotency-Key
	s.rt.Post("/v1/accounts/debit", s.idempotent(s.postDebit))
	s.rt.Post("/v1/accounts/credit", s.idempotent(s.postCredit))
	s.rt.Post("/v1/accounts/transfer", s.idempotent(s.postTransfer))
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Get("/metrics", metricsHandler().ServeHTTP)
}
