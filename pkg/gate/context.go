package gate

import (
	"context"
	"net/http"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying g.
func NewContext(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, contextKey{}, g)
}

// FromContext returns the gate carried by ctx. A context without a gate
// yields a nil *Gate, which reports every feature as disabled.
func FromContext(ctx context.Context) *Gate {
	g, _ := ctx.Value(contextKey{}).(*Gate)
	return g
}

// Middleware makes g available to downstream handlers via FromContext.
func Middleware(g *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), g)))
		})
	}
}
