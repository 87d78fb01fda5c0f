package google

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/ratemyprof/generator"
	"github.com/w-h-a/ratemyprof/util/gemini"
	"google.golang.org/api/iterator"
)

const defaultModel = "gemini-1.5-flash"

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Stream(ctx context.Context, messages []generator.Message) (generator.Stream, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages for Google")
	}

	model := g.client.GenerativeModel(g.options.Model)

	maxTokens := int32(g.options.MaxTokens)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
	}

	system, history := toHistory(messages[:len(messages)-1])
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	session := model.StartChat()
	session.History = history

	last := messages[len(messages)-1]

	iter := session.SendMessageStream(ctx, genai.Text(last.Content))

	// the request only goes out on the first Next; pull it here so a
	// rejected call fails before any bytes reach the caller
	first, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return &googleStream{iter: iter, done: true}, nil
	}
	if err != nil {
		return nil, err
	}

	return &googleStream{iter: iter, first: first}, nil
}

// toHistory maps prior turns onto Gemini's user/model roles and collects
// system messages into a single instruction.
func toHistory(messages []generator.Message) (string, []*genai.Content) {
	var system []string
	history := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		role := "user"
		switch msg.Role {
		case generator.RoleSystem:
			system = append(system, msg.Content)
			continue
		case generator.RoleAssistant:
			role = "model"
		}

		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	return strings.Join(system, "\n\n"), history
}

type responseIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

type googleStream struct {
	iter  responseIterator
	first *genai.GenerateContentResponse
	done  bool
}

func (s *googleStream) next() (*genai.GenerateContentResponse, error) {
	if s.done {
		return nil, iterator.Done
	}

	if s.first != nil {
		rsp := s.first
		s.first = nil
		return rsp, nil
	}

	return s.iter.Next()
}

func (s *googleStream) Recv() (string, error) {
	for {
		rsp, err := s.next()
		if errors.Is(err, iterator.Done) {
			s.done = true
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}

		if rsp == nil || len(rsp.Candidates) == 0 || rsp.Candidates[0] == nil || rsp.Candidates[0].Content == nil {
			continue
		}

		var b strings.Builder
		for _, part := range rsp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}

		if b.Len() == 0 {
			continue
		}

		return b.String(), nil
	}
}

func (s *googleStream) Close() error {
	return nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	g := &googleGenerator{
		options: options,
	}

	client, err := genai.NewClient(options.Context, gemini.ClientOptions(options.ApiKey, options.BaseURL, options.HTTPClient)...)
	if err != nil {
		detail := "failed to create gemini client"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	g.client = client

	return g
}
