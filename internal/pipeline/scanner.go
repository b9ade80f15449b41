package pipeline

import (
	"context"
	"path"
	"strings"

	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/resourceModel"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

var recognizedExtensions = map[string]bool{
	".json": true,
	".txt":  true,
	".html": true,
	".htm":  true,
	".md":   true,
}

// Scanner enumerates lesson-plan files across the configured containers.
// One failing container never aborts the whole scan.
type Scanner struct {
	store  blob.ObjectStore
	retry  RetryPolicy
	logger *logger_i.Logger
}

func NewScanner(store blob.ObjectStore, cfg *config.Config) *Scanner {
	return &Scanner{
		store: store,
		retry: RetryPolicy{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.ScanRetryDelay,
			Multiplier:   2,
			Retryable:    blob.IsTransient,
		},
		logger: logger_i.NewLogger("Scanner"),
	}
}

// Scan returns the union of discovered files in per-container listing order.
// Containers whose scans exhaust retries are skipped with an error log.
func (s *Scanner) Scan(ctx context.Context, containers []string) []resourceModel.FileLocator {
	var found []resourceModel.FileLocator

	for _, container := range containers {
		loggr := s.logger.With("container", container)

		var objects []blob.ObjectInfo
		err := s.retry.Do(ctx, func() error {
			if err := s.store.Ping(ctx, container); err != nil {
				return err
			}
			listed, err := s.store.ListObjects(ctx, container, config.BlobPathPrefix)
			if err != nil {
				return err
			}
			objects = listed
			return nil
		})
		if err != nil {
			loggr.Error("container scan failed after retries, skipping", "error", err)
			continue
		}

		count := 0
		for _, obj := range objects {
			locator, ok := parseLocator(container, obj.Path)
			if !ok {
				continue
			}
			found = append(found, locator)
			count++
		}
		loggr.Info("container scanned", "files", count)
	}
	return found
}

// parseLocator splits lessonplans/<benchmarkId>/<file> into a locator.
// Paths with fewer than three segments, empty parts or an unrecognized
// extension are skipped.
func parseLocator(container string, objectPath string) (resourceModel.FileLocator, bool) {
	segments := strings.Split(objectPath, "/")
	if len(segments) < 3 {
		return resourceModel.FileLocator{}, false
	}
	benchmarkID := segments[1]
	filename := segments[len(segments)-1]
	if benchmarkID == "" || filename == "" {
		return resourceModel.FileLocator{}, false
	}
	ext := strings.ToLower(path.Ext(filename))
	if !recognizedExtensions[ext] {
		return resourceModel.FileLocator{}, false
	}
	return resourceModel.FileLocator{
		Container:   container,
		Path:        objectPath,
		BenchmarkID: benchmarkID,
		ResourceID:  strings.TrimSuffix(filename, ext),
	}, true
}
