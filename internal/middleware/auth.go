package middleware

import (
	"net/http"

	"github.com/dodo-tasks/backend/internal/auth"
	"github.com/dodo-tasks/backend/internal/respond"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

// RequireAuth is middleware that validates the bearer token and injects
// the caller identity into the request context. Rejected requests never
// reach the wrapped handler.
func RequireAuth(tokens TokenVerifier, out *respond.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				out.Error(w, r, "authenticate", err)
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				out.Error(w, r, "authenticate", err)
				return
			}

			out.Logger.DebugContext(r.Context(), "request authenticated", "user_id", id.UserID, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
