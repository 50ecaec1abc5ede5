package handlers

import (
	"net/http"

	"wealth-server/src/db"
	"wealth-server/src/ledger"
	"wealth-server/src/logger"
	"wealth-server/src/middleware"
	"wealth-server/src/models"

	"github.com/go-chi/chi/v5"
)

func CreateAccount(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		ownerID := middleware.OwnerFromContext(r.Context())

		var req models.AccountRequest
		if err := decode(r, &req); err != nil {
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to decode create account request body")
			middleware.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		account, err := svc.CreateAccount(r.Context(), ownerID, req)
		if err != nil {
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to create account")
			writeServiceError(w, err)
			return
		}
		cache.InvalidateOwner(ownerID)
		log.Info().Str("owner", ownerID).Str("account_id", account.ID).Bool("default", account.IsDefault).Msg("Created account")
		middleware.WriteJSON(w, http.StatusCreated, account)
	}
}

func ListAccounts(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())
		if accounts, ok := cache.GetAccounts(ownerID); ok {
			middleware.WriteJSON(w, http.StatusOK, accounts)
			return
		}

		gen := cache.Generation(ownerID)
		accounts, err := svc.ListAccounts(r.Context(), ownerID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to list accounts")
			writeServiceError(w, err)
			return
		}
		if accounts == nil {
			accounts = []models.Account{}
		}
		cache.SetAccounts(ownerID, gen, accounts)
		middleware.WriteJSON(w, http.StatusOK, accounts)
	}
}

func GetAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())
		accountID := chi.URLParam(r, "account_id")

		account, err := svc.GetAccount(r.Context(), ownerID, accountID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("owner", ownerID).Str("account_id", accountID).Msg("Failed to get account")
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, account)
	}
}

func GetAccountTransactions(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())
		accountID := chi.URLParam(r, "account_id")

		txns, err := svc.ListAccountTransactions(r.Context(), ownerID, accountID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("owner", ownerID).Str("account_id", accountID).Msg("Failed to list transactions")
			writeServiceError(w, err)
			return
		}
		if txns == nil {
			txns = []models.Transaction{}
		}
		middleware.WriteJSON(w, http.StatusOK, txns)
	}
}

// ReconcileAccount reports whether the stored balance matches the account's transactions.
func ReconcileAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		ownerID := middleware.OwnerFromContext(r.Context())
		accountID := chi.URLParam(r, "account_id")

		check, err := svc.VerifyAccountBalance(r.Context(), ownerID, accountID)
		if err != nil {
			log.Error().Err(err).Str("owner", ownerID).Str("account_id", accountID).Msg("Failed to verify balance")
			writeServiceError(w, err)
			return
		}
		if !check.Consistent {
			log.Warn().
				Str("account_id", accountID).
				Str("stored", check.Stored.String()).
				Str("reconstructed", check.Reconstructed.String()).
				Msg("Account balance drift detected")
		}
		middleware.WriteJSON(w, http.StatusOK, check)
	}
}
