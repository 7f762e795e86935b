package controllers

import (
	"net/http"

	"github.com/parfumelle/parfumelle-backend/api/middleware"
	"github.com/parfumelle/parfumelle-backend/api/responses"
	checkoutsvc "github.com/parfumelle/parfumelle-backend/internal/checkout"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/google/uuid"
)

// Checkout converts the session cart into a persisted order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session missing"))
			return
		}

		order, err := svc.Checkout(r.Context(), userID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}
