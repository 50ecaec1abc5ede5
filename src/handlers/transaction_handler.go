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

func CreateTransaction(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		ownerID := middleware.OwnerFromContext(r.Context())

		var req models.TransactionRequest
		if err := decode(r, &req); err != nil {
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to decode create transaction request body")
			middleware.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		txn, err := svc.CreateTransaction(r.Context(), ownerID, req)
		if err != nil {
			log.Error().Err(err).Str("owner", ownerID).Str("account_id", req.AccountID).Msg("Failed to create transaction")
			writeServiceError(w, err)
			return
		}
		cache.InvalidateOwner(ownerID)
		log.Info().
			Str("owner", ownerID).
			Str("transaction_id", txn.ID).
			Str("account_id", txn.AccountID).
			Str("type", string(txn.Type)).
			Str("amount", txn.Amount.String()).
			Msg("Created transaction")
		middleware.WriteJSON(w, http.StatusCreated, txn)
	}
}

func GetTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())
		transactionID := chi.URLParam(r, "transaction_id")

		txn, err := svc.GetTransaction(r.Context(), ownerID, transactionID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("owner", ownerID).Str("transaction_id", transactionID).Msg("Failed to get transaction")
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, txn)
	}
}

func UpdateTransaction(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		ownerID := middleware.OwnerFromContext(r.Context())
		transactionID := chi.URLParam(r, "transaction_id")

		var req models.TransactionRequest
		if err := decode(r, &req); err != nil {
			log.Error().Err(err).Str("owner", ownerID).Str("transaction_id", transactionID).Msg("Failed to decode update transaction request body")
			middleware.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		txn, err := svc.UpdateTransaction(r.Context(), ownerID, transactionID, req)
		if err != nil {
			log.Error().Err(err).Str("owner", ownerID).Str("transaction_id", transactionID).Msg("Failed to update transaction")
			writeServiceError(w, err)
			return
		}
		cache.InvalidateOwner(ownerID)
		log.Info().Str("owner", ownerID).Str("transaction_id", txn.ID).Str("account_id", txn.AccountID).Msg("Updated transaction")
		middleware.WriteJSON(w, http.StatusOK, txn)
	}
}
