package pinecone

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/ratemyprof/storer"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeQuerier struct {
	ctx context.Context
	req *pinecone.QueryByVectorValuesRequest
	rsp *pinecone.QueryVectorsResponse
	err error
}

func (f *fakeQuerier) QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error) {
	f.ctx = ctx
	f.req = in
	return f.rsp, f.err
}

func metadata(t *testing.T, m map[string]any) *pinecone.Metadata {
	t.Helper()

	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestSearch_RequestsTopKWithMetadata(t *testing.T) {
	q := &fakeQuerier{
		rsp: &pinecone.QueryVectorsResponse{
			Matches: []*pinecone.ScoredVector{
				{
					Vector: &pinecone.Vector{
						Id:       "Dr. John Smith",
						Metadata: metadata(t, map[string]any{"subject": "Computer Science", "review": "clear lectures", "stars": 4}),
					},
					Score: 0.93,
				},
				{
					Vector: &pinecone.Vector{Id: "Dr. Linda Martinez"},
					Score:  0.81,
				},
			},
		},
	}

	s := &pineconeStorer{options: storer.NewOptions(), index: q}

	records, err := s.Search(context.Background(), []float32{0.3, 0.4}, 3)
	require.NoError(t, err)

	require.NotNil(t, q.req)
	assert.Equal(t, uint32(3), q.req.TopK)
	assert.True(t, q.req.IncludeMetadata)
	assert.Equal(t, []float32{0.3, 0.4}, q.req.Vector)

	require.Len(t, records, 2)
	assert.Equal(t, "Dr. John Smith", records[0].Id)
	assert.Equal(t, "Computer Science", records[0].Metadata["subject"])
	assert.Equal(t, float64(4), records[0].Metadata["stars"])
	assert.InDelta(t, 0.93, records[0].Score, 1e-6)

	assert.Equal(t, "Dr. Linda Martinez", records[1].Id)
	assert.Empty(t, records[1].Metadata)
}

func TestSearch_Error(t *testing.T) {
	q := &fakeQuerier{err: errors.New("unauthenticated")}
	s := &pineconeStorer{options: storer.NewOptions(), index: q}

	_, err := s.Search(context.Background(), []float32{0.3}, 3)
	require.EqualError(t, err, "unauthenticated")
}

func TestToRecords_SkipsEmptyMatches(t *testing.T) {
	records := toRecords([]*pinecone.ScoredVector{nil, {Score: 1}})
	assert.Empty(t, records)
}

func TestSearch_BoundsQueryWithTimeout(t *testing.T) {
	q := &fakeQuerier{rsp: &pinecone.QueryVectorsResponse{}}
	s := &pineconeStorer{
		options: storer.NewOptions(storer.WithTimeout(2 * time.Second)),
		index:   q,
	}

	_, err := s.Search(context.Background(), []float32{0.1}, 3)
	require.NoError(t, err)

	deadline, ok := q.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
}
