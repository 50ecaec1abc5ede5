package handlers

import (
	"net/http"
	"time"

	"wealth-server/src/db"
	"wealth-server/src/ledger"
	"wealth-server/src/logger"
	"wealth-server/src/middleware"

	"github.com/shopspring/decimal"
)

func GetBudget(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middleware.OwnerFromContext(r.Context())
		now := time.Now()
		if summary, ok := cache.GetBudget(ownerID, now); ok {
			middleware.WriteJSON(w, http.StatusOK, summary)
			return
		}

		gen := cache.Generation(ownerID)
		summary, err := svc.GetCurrentBudget(r.Context(), ownerID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to get budget")
			writeServiceError(w, err)
			return
		}
		cache.SetBudget(ownerID, gen, now, summary)
		middleware.WriteJSON(w, http.StatusOK, summary)
	}
}

func UpdateBudget(svc *ledger.Service, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		ownerID := middleware.OwnerFromContext(r.Context())

		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := decode(r, &req); err != nil {
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to decode update budget request body")
			middleware.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		budget, err := svc.UpdateBudget(r.Context(), ownerID, req.Amount)
		if err != nil {
			log.Error().Err(err).Str("owner", ownerID).Msg("Failed to update budget")
			writeServiceError(w, err)
			return
		}
		cache.InvalidateOwner(ownerID)
		log.Info().Str("owner", ownerID).Str("budget_id", budget.ID).Str("amount", budget.Amount.String()).Msg("Updated budget")
		middleware.WriteJSON(w, http.StatusOK, budget)
	}
}
