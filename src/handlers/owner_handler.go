package handlers

import (
	"net/http"

	"wealth-server/src/ledger"
	"wealth-server/src/logger"
	"wealth-server/src/middleware"
)

// RegisterOwner creates or refreshes the user row for the token's subject.
func RegisterOwner(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		identity, _ := middleware.IdentityFromContext(r.Context())

		user, err := svc.RegisterOwner(r.Context(), identity.Subject, identity.Email, identity.Name)
		if err != nil {
			log.Error().Err(err).Str("owner", identity.Subject).Msg("Failed to register owner")
			writeServiceError(w, err)
			return
		}
		log.Info().Str("owner", identity.Subject).Str("user_id", user.ID).Msg("Registered owner")
		middleware.WriteJSON(w, http.StatusOK, user)
	}
}
