package search

import (
	"fmt"
	"math"

	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
)

// ValidateDocument rejects documents the index would either refuse or serve
// badly: missing identity fields, absent or wrong-sized vectors, and vectors
// with non-finite components.
func ValidateDocument(doc documentModel.Document, dimension int) error {
	if doc.ID == "" {
		return fmt.Errorf("document missing id")
	}
	if doc.BenchmarkID == "" {
		return fmt.Errorf("document %s missing benchmarkId", doc.ID)
	}
	if doc.Title == "" {
		return fmt.Errorf("document %s missing title", doc.ID)
	}
	if len(doc.Embedding) == 0 {
		return fmt.Errorf("document %s has no embedding", doc.ID)
	}
	if len(doc.Embedding) != dimension {
		return fmt.Errorf("document %s embedding has %d dimensions, want %d", doc.ID, len(doc.Embedding), dimension)
	}
	for _, v := range doc.Embedding {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("document %s embedding contains non-finite values", doc.ID)
		}
	}
	return nil
}
