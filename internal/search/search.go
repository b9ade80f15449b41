package search

import (
	"context"

	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
)

// DocumentIndexer is the vector-index surface the pipeline and the search
// handler consume. EnsureIndex is create-if-absent and safe to call on every
// run; IndexBatch returns how many documents were accepted.
type DocumentIndexer interface {
	EnsureIndex(ctx context.Context) error
	IndexBatch(ctx context.Context, docs []documentModel.Document) (int, error)
	Search(ctx context.Context, vector []float32, limit int) ([]documentModel.Match, error)
	Close() error
}
