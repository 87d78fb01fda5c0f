package google

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/ratemyprof/generator"
	"google.golang.org/api/iterator"
)

func TestToHistory(t *testing.T) {
	system, history := toHistory([]generator.Message{
		{Role: generator.RoleSystem, Content: "first"},
		{Role: generator.RoleUser, Content: "hello"},
		{Role: generator.RoleSystem, Content: "second"},
		{Role: generator.RoleAssistant, Content: "hi"},
	})

	assert.Equal(t, "first\n\nsecond", system)
	require.Len(t, history, 2)

	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("hello")}, history[0].Parts)

	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("hi")}, history[1].Parts)
}

type fakeIterator struct {
	responses []*genai.GenerateContentResponse
	err       error
}

func (f *fakeIterator) Next() (*genai.GenerateContentResponse, error) {
	if len(f.responses) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, iterator.Done
	}
	rsp := f.responses[0]
	f.responses = f.responses[1:]
	return rsp, nil
}

func text(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func drain(t *testing.T, s generator.Stream) ([]string, error) {
	t.Helper()

	var chunks []string
	for {
		chunk, err := s.Recv()
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
}

func TestStream_ServesBufferedFirstResponse(t *testing.T) {
	s := &googleStream{
		first: text("Dr. Smith"),
		iter:  &fakeIterator{responses: []*genai.GenerateContentResponse{text(" is", " great")}},
	}

	chunks, err := drain(t, s)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"Dr. Smith", " is great"}, chunks)
}

func TestStream_SkipsEmptyResponses(t *testing.T) {
	s := &googleStream{
		iter: &fakeIterator{responses: []*genai.GenerateContentResponse{
			{},
			{Candidates: []*genai.Candidate{{}}},
			text(),
			text("only"),
		}},
	}

	chunks, err := drain(t, s)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"only"}, chunks)
}

func TestStream_ErrorAfterChunks(t *testing.T) {
	cause := errors.New("stream reset")
	s := &googleStream{
		first: text("a"),
		iter:  &fakeIterator{responses: []*genai.GenerateContentResponse{text("b")}, err: cause},
	}

	chunks, err := drain(t, s)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"a", "b"}, chunks)
}

func TestStream_EmptyCompletion(t *testing.T) {
	s := &googleStream{iter: &fakeIterator{}, done: true}

	_, err := s.Recv()
	assert.ErrorIs(t, err, io.EOF)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

var conversation = []generator.Message{
	{Role: generator.RoleSystem, Content: "you rank professors"},
	{Role: generator.RoleUser, Content: "physics"},
}

func TestGenerator_RejectedOpenFailsStream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"bad key","status":"UNAUTHENTICATED"}}`))
	}))
	defer ts.Close()

	g := NewGenerator(
		generator.WithApiKey("bad"),
		generator.WithBaseURL(ts.URL),
	)

	stream, err := g.Stream(context.Background(), conversation)

	require.Error(t, err)
	assert.Nil(t, stream)
}

func TestGenerator_StreamsChunksInOrder(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
{"candidates":[{"content":{"role":"model","parts":[{"text":"Dr. Smith"}]}}]},
{"candidates":[{"content":{"role":"model","parts":[{"text":" teaches"},{"text":" physics."}]}}]}
]`))
	}))
	defer ts.Close()

	g := NewGenerator(
		generator.WithApiKey("g-test"),
		generator.WithBaseURL(ts.URL),
		generator.WithHTTPClient(ts.Client()),
	)

	stream, err := g.Stream(context.Background(), conversation)
	require.NoError(t, err)
	defer stream.Close()

	chunks, err := drain(t, stream)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"Dr. Smith", " teaches physics."}, chunks)
	assert.True(t, strings.HasSuffix(path, defaultModel+":streamGenerateContent"))
}
