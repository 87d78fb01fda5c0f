package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/w-h-a/ratemyprof/generator"
)

// Responder opens a completion stream for a conversation.
type Responder interface {
	Respond(ctx context.Context, conversation []generator.Message) (generator.Stream, error)
}

type handler struct {
	responder Responder
}

// ServeHTTP decodes a JSON array of messages and relays the completion as a
// plain text body, flushing after every chunk. Once the status line is out,
// an upstream failure aborts the connection so the client sees a truncated
// body instead of a clean end of stream.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var conversation []generator.Message
	if err := json.NewDecoder(r.Body).Decode(&conversation); err != nil {
		slog.WarnContext(ctx, "failed to decode conversation", "error", err)
		http.Error(w, "body must be a JSON array of messages", http.StatusBadRequest)
		return
	}

	if len(conversation) == 0 {
		http.Error(w, "conversation is empty", http.StatusBadRequest)
		return
	}

	stream, err := h.responder.Respond(ctx, conversation)
	if err != nil {
		slog.ErrorContext(ctx, "failed to respond", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)

	chunks := 0

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			slog.DebugContext(ctx, "completion stream finished", "chunks", chunks)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "completion stream failed", "chunks", chunks, "error", err)
			panic(http.ErrAbortHandler)
		}

		if len(chunk) == 0 {
			continue
		}

		if _, err := io.WriteString(w, chunk); err != nil {
			slog.WarnContext(ctx, "client went away", "chunks", chunks, "error", err)
			return
		}

		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			slog.WarnContext(ctx, "failed to flush chunk", "error", err)
			return
		}

		chunks++
	}
}

func NewHandler(responder Responder) http.Handler {
	if responder == nil {
		panic("responder is required")
	}

	return &handler{responder: responder}
}
