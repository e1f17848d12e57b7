package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dodo-tasks/backend/internal/respond"
)

// Recover turns a handler panic into a JSON 500 through out, logging
// the stack. http.ErrAbortHandler is re-raised so net/http can abort
// the connection.
func Recover(out *respond.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				out.Logger.ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				out.Error(w, r, "panic", fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
