package audit

import (
	"context"
	"fmt"
)

// FailedFile is one unrecoverable per-file failure, written for diagnostics
// only. The pipeline never reads this log back.
type FailedFile struct {
	Kind        string
	Path        string
	BenchmarkID string
	ResourceID  string
	Reason      string
}

func (f FailedFile) Line() string {
	return fmt.Sprintf("[%s] File: %s, BenchmarkID: %s, ResourceID: %s - Reason: %s\n",
		f.Kind, f.Path, f.BenchmarkID, f.ResourceID, f.Reason)
}

type FailureLog interface {
	Record(ctx context.Context, failure FailedFile)
}

// Discard drops failures; used when no audit sink is configured.
type Discard struct{}

func (Discard) Record(ctx context.Context, failure FailedFile) {}
