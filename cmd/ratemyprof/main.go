package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/ratemyprof"
	"github.com/w-h-a/ratemyprof/handler/chat"
	"github.com/w-h-a/ratemyprof/server"
	httpserver "github.com/w-h-a/ratemyprof/server/http"
)

var cfg config

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	_ = kong.Parse(
		&cfg,
		kong.Name("ratemyprof"),
		kong.Description("Answers questions about professors from their reviews."),
	)

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(logger); err != nil {
		logger.Error("ratemyprof exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.validate(); err != nil {
		return err
	}

	prompt, err := cfg.systemPrompt()
	if err != nil {
		return err
	}

	// Create providers
	em := newEmbedder(&cfg)
	st := newStorer(ctx, &cfg)
	ge := newGenerator(&cfg)

	advisor := ratemyprof.New(em, st, ge, prompt)

	// Create server
	opts := []server.Option{
		server.WithAddress(cfg.Address),
		server.WithReadTimeout(cfg.ReadTimeout),
		server.WithIdleTimeout(cfg.IdleTimeout),
	}
	if len(cfg.AllowedOrigin) > 0 {
		opts = append(opts, httpserver.WithMiddleware(httpserver.AllowOrigin(cfg.AllowedOrigin)))
	}

	srv := httpserver.NewServer(opts...)

	srv.Handle(http.MethodPost, "/api/chat", chat.NewHandler(advisor))

	if err := srv.Start(); err != nil {
		return err
	}

	logger.Info(
		"ratemyprof ready",
		"embedder", cfg.Embedder,
		"generator", cfg.Generator,
		"storer", cfg.Storer,
		"index", cfg.Index,
	)

	<-ctx.Done()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
