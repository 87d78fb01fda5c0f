package http

import (
	"context"
	"net/http"

	"github.com/w-h-a/ratemyprof/server"
)

// Middleware wraps every request before routing, so it also sees requests
// no route matches (CORS preflights, 404s).
type Middleware func(h http.Handler) http.Handler

type middlewareKey struct{}

// WithMiddleware appends to the server's middleware. The first one given is
// the outermost.
func WithMiddleware(ms ...Middleware) server.Option {
	return func(o *server.Options) {
		existing, _ := MiddlewareFrom(o.Context)
		all := append(append([]Middleware{}, existing...), ms...)
		o.Context = context.WithValue(o.Context, middlewareKey{}, all)
	}
}

func MiddlewareFrom(ctx context.Context) ([]Middleware, bool) {
	ms, ok := ctx.Value(middlewareKey{}).([]Middleware)
	return ms, ok
}
