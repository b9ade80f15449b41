package audit

import (
	"context"
	"time"

	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

// BlobLog appends failures to a daily append blob so multiple service
// instances share one audit trail.
type BlobLog struct {
	store     blob.ObjectStore
	container string
	logger    *logger_i.Logger
}

func NewBlobLog(store blob.ObjectStore, container string) *BlobLog {
	return &BlobLog{
		store:     store,
		container: container,
		logger:    logger_i.NewLogger("AuditBlobLog"),
	}
}

func (l *BlobLog) Record(ctx context.Context, failure FailedFile) {
	name := "failed_files_" + time.Now().UTC().Format("2006-01-02") + ".txt"
	if err := l.store.AppendLog(ctx, l.container, name, []byte(failure.Line())); err != nil {
		l.logger.Error("could not append to audit blob", "blob", name, "error", err)
	}
}
