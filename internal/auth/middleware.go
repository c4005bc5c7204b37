package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/repository"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the actor value.
type contextKey string

const actorKey contextKey = "actor"

// ResolveActor is middleware that turns a bearer token into an authz.Actor
// in the request context.
//
// It never blocks a request: an absent or invalid token simply leaves the
// request anonymous, and the authorization layer decides what an anonymous
// actor may do. This matches the API's read-open design — GET /api/snippets
// works without any credentials.
//
// A valid token is resolved against the user store so the actor carries the
// CURRENT staff flag, not whatever was true when the token was minted. A
// token for a deactivated user resolves to anonymous.
func ResolveActor(tokens *TokenService, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				logger.Debug("ignoring invalid bearer token", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			actor := &authz.Actor{
				ID:       user.ID,
				Username: user.Username,
				IsStaff:  user.IsStaff,
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext retrieves the acting user from the request context.
// Returns nil for anonymous requests.
func ActorFromContext(ctx context.Context) *authz.Actor {
	actor, _ := ctx.Value(actorKey).(*authz.Actor)
	return actor
}

// bearerToken extracts the token from an "Authorization: Bearer <jwt>"
// header. Returns "" when the header is missing or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
