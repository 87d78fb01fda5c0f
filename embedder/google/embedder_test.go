package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/ratemyprof/embedder"
)

func TestEmbed_UsesEndpointAndClient(t *testing.T) {
	var path, key string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embedding":{"values":[0.25,0.5,0.75]}}`))
	}))
	defer ts.Close()

	e := NewEmbedder(
		embedder.WithApiKey("g-test"),
		embedder.WithBaseURL(ts.URL),
		embedder.WithHTTPClient(ts.Client()),
	)

	vector, err := e.Embed(context.Background(), "physics")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.25, 0.5, 0.75}, vector)
	assert.True(t, strings.HasSuffix(path, defaultModel+":embedContent"))
	assert.Equal(t, "g-test", key)
}

func TestEmbed_EmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	e := NewEmbedder(
		embedder.WithApiKey("g-test"),
		embedder.WithBaseURL(ts.URL),
	)

	_, err := e.Embed(context.Background(), "physics")
	assert.Error(t, err)
}
