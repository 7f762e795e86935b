package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/parfumelle/parfumelle-backend/pkg/logger"
)

const (
	sessionHeader = "X-Session-Id"
	sessionCookie = "parfumelle_session"
)

// Session resolves the storefront session identifier for cart-scoped routes.
// The header wins over the cookie; a fresh id is minted when neither is set,
// so anonymous visitors get a cart on first contact.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
			if sessionID == "" {
				if cookie, err := r.Cookie(sessionCookie); err == nil {
					sessionID = strings.TrimSpace(cookie.Value)
				}
			}
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithField(ctx, "session_id", sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
