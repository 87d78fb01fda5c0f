package storer

import "context"

// Storer queries a pre-populated vector index. Implementations always return
// record metadata alongside each match.
type Storer interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Record, error)
}
