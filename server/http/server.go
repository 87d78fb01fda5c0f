package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/ratemyprof/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	router  *mux.Router
	handler http.Handler
	srv     *http.Server
}

func (s *httpServer) Handle(method string, path string, handler http.Handler) {
	s.router.Handle(path, handler).Methods(method)
}

func (s *httpServer) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
func (s *httpServer) Start() error {
	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	slog.InfoContext(s.options.Context, "http server listening", "address", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(s.options.Context, "http server stopped", "error", err)
		}
	}()

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func NewServer(opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", health).Methods(http.MethodGet)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}
	handler = recoverer(handler)
	handler = accessLog(handler)
	handler = requestId(handler)
	handler = otelhttp.NewHandler(handler, options.Name)

	s := &httpServer{
		options: options,
		router:  router,
		handler: handler,
	}

	// no write timeout: completions stream for as long as the model talks
	s.srv = &http.Server{
		Addr:        options.Address,
		Handler:     handler,
		ReadTimeout: options.ReadTimeout,
		IdleTimeout: options.IdleTimeout,
	}

	return s
}
