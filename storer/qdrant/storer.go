package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/w-h-a/ratemyprof/storer"
	getsafe "github.com/w-h-a/ratemyprof/util/get_safe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Payload keys. Qdrant point ids cannot hold a professor's name, so the name
// lives in the payload; metadata is either nested or the payload itself.
const (
	idKey       = "professor"
	metadataKey = "metadata"
)

type qdrantStorer struct {
	options storer.Options
	client  *http.Client
}

func (s *qdrantStorer) Search(ctx context.Context, vector []float32, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	req := qdrantSearchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}

	var rsp qdrantEnvelope[[]qdrantPointResult]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	if len(rsp.Status.Error) > 0 {
		return nil, errors.New(rsp.Status.Error)
	}

	results := make([]storer.Record, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		payload := point.Payload

		id := getsafe.String(payload, idKey)
		if len(id) == 0 {
			id = point.pointId()
		}

		metadata := getsafe.Metadata(payload, metadataKey)
		if metadata == nil {
			metadata = payload
		}

		results = append(results, storer.Record{
			Id:       id,
			Metadata: metadata,
			Score:    float32(point.Score),
		})
	}

	return results, nil
}

func (s *qdrantStorer) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := strings.TrimRight(s.options.Location, "/") + path
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(s.options.ApiKey) > 0 {
		request.Header.Set("api-key", s.options.ApiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

// verify checks the collection is reachable. It never creates one: the index
// is populated out of band.
func (s *qdrantStorer) verify(ctx context.Context) error {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") {
		return fmt.Errorf("qdrant collection %s not ready: %s", s.options.Collection, rsp.Status.Error)
	}

	return nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 || len(options.Collection) == 0 {
		panic("missing location or collection for qdrant storer")
	}

	client := &http.Client{
		Timeout:   options.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	s := &qdrantStorer{
		options: options,
		client:  client,
	}

	if err := s.verify(options.Context); err != nil {
		detail := "failed to reach qdrant collection"
		slog.ErrorContext(options.Context, detail, "collection", options.Collection, "error", err)
		panic(detail)
	}

	return s
}
