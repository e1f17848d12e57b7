package middleware

import "net/http"

// DefaultMaxBodyBytes caps JSON request bodies at 100 KiB.
const DefaultMaxBodyBytes = 100 << 10

// LimitBody caps the request body at n bytes. Reads past the cap fail
// with *http.MaxBytesError, which respond.Decode reports as 413.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
