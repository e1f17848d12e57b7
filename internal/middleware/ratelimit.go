package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dodo-tasks/backend/internal/models"
	"github.com/dodo-tasks/backend/internal/ratelimit"
	"github.com/dodo-tasks/backend/internal/respond"
)

// RateLimit counts each request against the client address and rejects
// it with 429 once the window's cap is exceeded. Limiter failures let
// the request through.
func RateLimit(limiter ratelimit.Limiter, out *respond.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			d, err := limiter.Allow(r.Context(), key)
			if err != nil {
				out.Logger.ErrorContext(r.Context(), "rate limiter unavailable", "error", err.Error(), "client", key)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
			h.Set("RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
			reset := int64(time.Until(d.ResetAt).Round(time.Second) / time.Second)
			if reset < 0 {
				reset = 0
			}
			h.Set("RateLimit-Reset", strconv.FormatInt(reset, 10))

			if !d.Allowed {
				h.Set("Retry-After", strconv.FormatInt(reset, 10))
				out.Error(w, r, "rate_limit", models.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the remote IP without port. RemoteAddr is the socket
// peer unless chi's RealIP runs first, which the router only does when
// TRUST_PROXY is set.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
