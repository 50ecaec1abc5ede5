package api

import (
	"net/http"

	"wealth-server/src/db"
	"wealth-server/src/handlers"
	"wealth-server/src/ledger"
	"wealth-server/src/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(svc *ledger.Service, cache *db.Cache, log zerolog.Logger, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(opts.JWTSecret))
		r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

		// Owner
		r.Post("/me", handlers.RegisterOwner(svc))

		// Accounts
		r.Post("/accounts", handlers.CreateAccount(svc, cache))
		r.Get("/accounts", handlers.ListAccounts(svc, cache))
		r.Get("/accounts/{account_id}", handlers.GetAccount(svc))
		r.Get("/accounts/{account_id}/transactions", handlers.GetAccountTransactions(svc))
		r.Get("/accounts/{account_id}/reconcile", handlers.ReconcileAccount(svc))

		// Transactions
		r.Post("/transactions", handlers.CreateTransaction(svc, cache))
		r.Get("/transactions/{transaction_id}", handlers.GetTransaction(svc))
		r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(svc, cache))

		// Budget
		r.Get("/budget", handlers.GetBudget(svc, cache))
		r.Put("/budget", handlers.UpdateBudget(svc, cache))
	})

	return r
}
