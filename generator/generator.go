package generator

import "context"

// Generator opens a streamed chat completion for a sequence of messages.
type Generator interface {
	Stream(ctx context.Context, messages []Message) (Stream, error)
}

// Stream yields generated text in arrival order. Recv returns io.EOF once the
// upstream completion has finished.
type Stream interface {
	Recv() (string, error)
	Close() error
}
