package pipeline

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/resourceModel"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

const fallbackDescriptionLimit = 500

// Fetcher downloads one file and turns it into a Record. Parse problems are
// downgraded to fallback records; only an exhausted transport failure yields
// no record at all.
type Fetcher struct {
	store  blob.ObjectStore
	retry  RetryPolicy
	logger *logger_i.Logger
}

func NewFetcher(store blob.ObjectStore, cfg *config.Config) *Fetcher {
	return &Fetcher{
		store: store,
		retry: RetryPolicy{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.DownloadRetryDelay,
			Multiplier:   2,
			Retryable:    blob.IsTransient,
		},
		logger: logger_i.NewLogger("Fetcher"),
	}
}

// Fetch returns (record, true) on success or any parse downgrade, and
// (nil, false) when the download itself fails for good.
func (f *Fetcher) Fetch(ctx context.Context, locator resourceModel.FileLocator) (resourceModel.Record, bool) {
	var data []byte
	err := f.retry.Do(ctx, func() error {
		downloaded, err := f.store.DownloadObject(ctx, locator.Container, locator.Path)
		if err != nil {
			return err
		}
		data = downloaded
		return nil
	})
	if err != nil {
		f.logger.Error("download failed after retries", "path", locator.Path, "error", err)
		return nil, false
	}

	ext := strings.ToLower(path.Ext(locator.Path))
	if ext != ".json" {
		return resourceModel.FallbackResource{
			ResourceID:  locator.ResourceID,
			Title:       "Lesson Plan: " + locator.ResourceID,
			Description: string(data),
			Type:        "lesson_plan",
		}, true
	}

	var structured resourceModel.StructuredResource
	if err := json.Unmarshal(data, &structured); err != nil {
		f.logger.Warn("malformed JSON, using fallback record", "path", locator.Path, "error", err)
		return resourceModel.FallbackResource{
			ResourceID:  locator.ResourceID,
			Title:       "Resource " + locator.ResourceID,
			Description: truncate(string(data), fallbackDescriptionLimit),
			Type:        "lesson_plan",
		}, true
	}
	return structured, true
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
