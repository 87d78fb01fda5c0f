package ratemyprof

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/w-h-a/ratemyprof/embedder"
	"github.com/w-h-a/ratemyprof/generator"
	"github.com/w-h-a/ratemyprof/storer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TopK is the number of professor reviews spliced into each answer.
const TopK = 3

var ErrEmptyConversation = errors.New("conversation is empty")

var tracer = otel.Tracer("github.com/w-h-a/ratemyprof")

// Advisor answers a conversation with a completion grounded in the nearest
// professor reviews. It holds no per-request state and is safe for
// concurrent use.
type Advisor struct {
	embedder     embedder.Embedder
	storer       storer.Storer
	generator    generator.Generator
	systemPrompt string
}

// Respond embeds the last message of the conversation, retrieves the TopK
// closest reviews, and opens a completion stream over the system prompt, all
// earlier turns, and the last message augmented with those reviews. The
// caller must Close the returned stream.
//
// The last message is treated as the query whatever its role. Nothing is
// sent to the generator unless both the embedding and the search succeed.
func (a *Advisor) Respond(ctx context.Context, conversation []generator.Message) (generator.Stream, error) {
	ctx, span := tracer.Start(ctx, "Advisor.Respond")
	defer span.End()

	if len(conversation) == 0 {
		span.SetStatus(codes.Error, ErrEmptyConversation.Error())
		return nil, ErrEmptyConversation
	}

	span.SetAttributes(attribute.Int("conversation.length", len(conversation)))

	query := conversation[len(conversation)-1].Content

	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fail(span, "embed query", err)
	}

	records, err := a.storer.Search(ctx, vector, TopK)
	if err != nil {
		return nil, fail(span, "search index", err)
	}

	span.SetAttributes(attribute.Int("index.matches", len(records)))

	messages := a.outbound(conversation, augment(query, records))

	stream, err := a.generator.Stream(ctx, messages)
	if err != nil {
		return nil, fail(span, "open completion stream", err)
	}

	return stream, nil
}

// outbound builds [system] + conversation[:n-1] + [user: augmented] into a
// fresh slice; the caller's conversation is left untouched.
func (a *Advisor) outbound(conversation []generator.Message, augmented string) []generator.Message {
	prior := conversation[:len(conversation)-1]

	messages := make([]generator.Message, 0, len(conversation)+1)
	messages = append(messages, generator.Message{Role: generator.RoleSystem, Content: a.systemPrompt})
	messages = append(messages, prior...)
	messages = append(messages, generator.Message{Role: generator.RoleUser, Content: augmented})

	return messages
}

func fail(span trace.Span, stage string, err error) error {
	err = fmt.Errorf("%s: %w", stage, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	return err
}

func New(
	embedder embedder.Embedder,
	storer storer.Storer,
	generator generator.Generator,
	systemPrompt string,
) *Advisor {
	if embedder == nil {
		panic("embedder is required")
	}

	if storer == nil {
		panic("storer is required")
	}

	if generator == nil {
		panic("generator is required")
	}

	if len(strings.TrimSpace(systemPrompt)) == 0 {
		systemPrompt = DefaultSystemPrompt
	}

	return &Advisor{
		embedder:     embedder,
		storer:       storer,
		generator:    generator,
		systemPrompt: systemPrompt,
	}
}
