package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/falling-game-be/internal/auth"
	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/isdelr/falling-game-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

// userKey is the context key for the authenticated user.
const userKey = contextKey("user")

// RequireUser creates a middleware that resolves the bearer token to a user
// and rejects the request with 401 when that fails.
func RequireUser(service services.AuthServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			user, err := service.CurrentUser(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			hlog.FromRequest(r).Debug().Int64("user_id", user.ID).Msg("Authenticated request")
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by RequireUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
