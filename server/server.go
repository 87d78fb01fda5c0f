package server

import (
	"context"
	"net/http"
)

type Server interface {
	Handle(method string, path string, handler http.Handler)
	Handler() http.Handler
	Start() error
	Stop(ctx context.Context) error
}
