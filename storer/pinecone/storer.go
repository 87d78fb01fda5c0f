package pinecone

import (
	"context"
	"log/slog"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/w-h-a/ratemyprof/storer"
)

const (
	defaultIndex     = "rag"
	defaultNamespace = "ns1"
)

type querier interface {
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
}

type pineconeStorer struct {
	options storer.Options
	index   querier
}

func (s *pineconeStorer) Search(ctx context.Context, vector []float32, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	rsp, err := s.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(limit),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}

	return toRecords(rsp.Matches), nil
}

func toRecords(matches []*pinecone.ScoredVector) []storer.Record {
	records := make([]storer.Record, 0, len(matches))

	for _, match := range matches {
		if match == nil || match.Vector == nil {
			continue
		}

		rec := storer.Record{
			Id:    match.Vector.Id,
			Score: match.Score,
		}

		if match.Vector.Metadata != nil {
			rec.Metadata = match.Vector.Metadata.AsMap()
		} else {
			rec.Metadata = map[string]any{}
		}

		records = append(records, rec)
	}

	return records
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Collection) == 0 {
		options.Collection = defaultIndex
	}

	if len(options.Namespace) == 0 {
		options.Namespace = defaultNamespace
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: options.ApiKey,
	})
	if err != nil {
		detail := "failed to create pinecone client"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	idx, err := client.DescribeIndex(options.Context, options.Collection)
	if err != nil {
		detail := "failed to describe pinecone index"
		slog.ErrorContext(options.Context, detail, "index", options.Collection, "error", err)
		panic(detail)
	}

	conn, err := client.Index(pinecone.NewIndexConnParams{
		Host:      idx.Host,
		Namespace: options.Namespace,
	})
	if err != nil {
		detail := "failed to connect to pinecone index"
		slog.ErrorContext(options.Context, detail, "host", idx.Host, "error", err)
		panic(detail)
	}

	return &pineconeStorer{
		options: options,
		index:   conn,
	}
}
