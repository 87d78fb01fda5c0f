package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/ratemyprof/storer"
)

func newTestServer(t *testing.T, search http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/professors", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","result":{"status":"green"}}`))
	})
	mux.HandleFunc("POST /collections/professors/points/search", search)

	return httptest.NewServer(mux)
}

func TestSearch_RequestsPayloadWithLimit(t *testing.T) {
	var got qdrantSearchRequest

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{
			"status": "ok",
			"result": [
				{"id": "5c56c793-69f3-4fbf-87e6-c4bf54c28c26", "score": 0.91, "payload": {"professor": "Dr. Smith", "metadata": {"subject": "Computer Science", "review": "clear", "stars": 4}}},
				{"id": 42, "score": 0.80, "payload": {"subject": "Math", "review": "tough", "stars": 3.5}}
			]
		}`))
	})
	defer srv.Close()

	s := NewStorer(
		storer.WithLocation(srv.URL),
		storer.WithCollection("professors"),
		storer.WithApiKey("secret"),
	)

	records, err := s.Search(context.Background(), []float32{0.1, 0.2}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Limit)
	assert.True(t, got.WithPayload)
	assert.Equal(t, []float32{0.1, 0.2}, got.Vector)

	require.Len(t, records, 2)

	assert.Equal(t, "Dr. Smith", records[0].Id)
	assert.Equal(t, "Computer Science", records[0].Metadata["subject"])
	assert.InDelta(t, 0.91, records[0].Score, 1e-6)

	assert.Equal(t, "42", records[1].Id)
	assert.Equal(t, "Math", records[1].Metadata["subject"])
	assert.Equal(t, 3.5, records[1].Metadata["stars"])
}

func TestSearch_HTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":{"error":"forbidden"}}`))
	})
	defer srv.Close()

	s := NewStorer(
		storer.WithLocation(srv.URL),
		storer.WithCollection("professors"),
	)

	_, err := s.Search(context.Background(), []float32{0.1}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearch_ZeroLimit(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("search should not be called")
	})
	defer srv.Close()

	s := NewStorer(
		storer.WithLocation(srv.URL),
		storer.WithCollection("professors"),
	)

	records, err := s.Search(context.Background(), []float32{0.1}, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewStorer_MissingCollection(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer srv.Close()

	assert.Panics(t, func() {
		NewStorer(
			storer.WithLocation(srv.URL),
			storer.WithCollection("absent"),
		)
	})
}
