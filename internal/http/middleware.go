package http

import (
	"context"
	"net/http"

	"github.com/fjod/storefront/internal/auth"
	"github.com/fjod/storefront/internal/logger"
)

type ctxKey int

const userIDKey ctxKey = iota

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func userIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// Authenticator gates routes on a valid session token.
type Authenticator struct {
	auth AuthService
}

func NewAuthenticator(a AuthService) *Authenticator {
	return &Authenticator{auth: a}
}

func (a *Authenticator) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.auth.Authenticate(auth.TokenFromRequest(r))
		if err != nil {
			handleError(w, r, err)
			return
		}

		logger.SetUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// RequireAdmin implies RequireSession and additionally loads the user to check the admin flag.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.auth.RequireAdmin(r.Context(), userIDFromContext(r.Context())); err != nil {
			handleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
