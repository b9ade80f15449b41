package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
	"github.com/akolanti/LessonIndexer/internal/embedding"
)

// MockObjectStore implements blob.ObjectStore
type MockObjectStore struct {
	OnPing     func(ctx context.Context, container string) error
	OnList     func(ctx context.Context, container string, prefix string) ([]blob.ObjectInfo, error)
	OnDownload func(ctx context.Context, container string, path string) ([]byte, error)
}

func (m *MockObjectStore) Ping(ctx context.Context, container string) error {
	if m.OnPing != nil {
		return m.OnPing(ctx, container)
	}
	return nil
}

func (m *MockObjectStore) ListObjects(ctx context.Context, container string, prefix string) ([]blob.ObjectInfo, error) {
	if m.OnList != nil {
		return m.OnList(ctx, container, prefix)
	}
	return nil, nil
}

func (m *MockObjectStore) DownloadObject(ctx context.Context, container string, path string) ([]byte, error) {
	if m.OnDownload != nil {
		return m.OnDownload(ctx, container, path)
	}
	return nil, errors.New("no download stub")
}

func (m *MockObjectStore) AppendLog(ctx context.Context, container string, name string, entry []byte) error {
	return nil
}

// MockIndexer implements search.DocumentIndexer
type MockIndexer struct {
	OnEnsureIndex func(ctx context.Context) error
	OnIndexBatch  func(ctx context.Context, docs []documentModel.Document) (int, error)
	Batches       [][]documentModel.Document
}

func (m *MockIndexer) EnsureIndex(ctx context.Context) error {
	if m.OnEnsureIndex != nil {
		return m.OnEnsureIndex(ctx)
	}
	return nil
}

func (m *MockIndexer) IndexBatch(ctx context.Context, docs []documentModel.Document) (int, error) {
	m.Batches = append(m.Batches, docs)
	if m.OnIndexBatch != nil {
		return m.OnIndexBatch(ctx, docs)
	}
	return len(docs), nil
}

func (m *MockIndexer) Search(ctx context.Context, vector []float32, limit int) ([]documentModel.Match, error) {
	return nil, nil
}

func (m *MockIndexer) Close() error { return nil }

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbedText   func(ctx context.Context, text string) ([]float32, error)
	OnRateLimited func(err error) bool
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedText != nil {
		return m.OnEmbedText(ctx, text)
	}
	return []float32{1, 1, 1, 1}, nil
}

func (m *MockEmbedder) RateLimited(err error) bool {
	if m.OnRateLimited != nil {
		return m.OnRateLimited(err)
	}
	return false
}

func testConfig() *config.Config {
	return &config.Config{
		QdrantHost:              "localhost",
		IndexName:               "lessonplans-test",
		StorageConnectionString: "UseDevelopmentStorage=true",
		StorageContainers:       []string{"container-a"},
		OpenAIAPIKey:            "test-key",
		EmbeddingDimension:      4,
		EmbeddingMaxChars:       8000,
		BatchSize:               6,
		MaxRetries:              3,
		RetryDelay:              time.Millisecond,
		ScanRetryDelay:          time.Millisecond,
		DownloadRetryDelay:      time.Millisecond,
		RateLimitRetryDelay:     time.Millisecond,
		MaxFilesPerBenchmark:    20,
		MaxTotalFiles:           500,
		ProcessingTimeout:       time.Minute,
		BatchFlushPause:         time.Millisecond,
	}
}

func testGenerator(embedder embedding.Embedder, cfg *config.Config) *embedding.Generator {
	return embedding.NewGenerator(embedder, cfg.EmbeddingDimension, cfg.EmbeddingMaxChars, cfg.RateLimitRetryDelay)
}
