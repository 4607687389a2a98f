package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds the request context. It never writes a response; a
// handler whose storage call hits the deadline answers through its own error
// path, so the client still gets the JSON 500 body.
func RequestTimeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
