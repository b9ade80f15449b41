package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/internal/domain/resourceModel"
)

var jsonLocator = resourceModel.FileLocator{
	Container:   "container-a",
	Path:        "lessonplans/MA.K.NSO.1.1/101.json",
	BenchmarkID: "MA.K.NSO.1.1",
	ResourceID:  "101",
}

func TestFetcher_WellFormedJSON(t *testing.T) {
	store := &MockObjectStore{
		OnDownload: func(ctx context.Context, container string, path string) ([]byte, error) {
			return []byte(`{"Title":"Counting to 20","ResourceId":101,"BenchmarkCodes":"MA.K.NSO.1.1"}`), nil
		},
	}

	fetcher := NewFetcher(store, testConfig())
	record, ok := fetcher.Fetch(context.Background(), jsonLocator)
	if !ok {
		t.Fatal("expected a record")
	}

	structured, isStructured := record.(resourceModel.StructuredResource)
	if !isStructured {
		t.Fatalf("expected StructuredResource, got %T", record)
	}
	if structured.Title != "Counting to 20" {
		t.Errorf("title = %q", structured.Title)
	}
	if structured.ResourceID.String() != "101" {
		t.Errorf("numeric ResourceId should decode to %q, got %q", "101", structured.ResourceID)
	}
}

func TestFetcher_MalformedJSONFallsBack(t *testing.T) {
	raw := `{"Title": "broken` + strings.Repeat("x", 600)
	store := &MockObjectStore{
		OnDownload: func(ctx context.Context, container string, path string) ([]byte, error) {
			return []byte(raw), nil
		},
	}

	fetcher := NewFetcher(store, testConfig())
	record, ok := fetcher.Fetch(context.Background(), jsonLocator)
	if !ok {
		t.Fatal("malformed JSON must still yield a record")
	}

	fallback, isFallback := record.(resourceModel.FallbackResource)
	if !isFallback {
		t.Fatalf("expected FallbackResource, got %T", record)
	}
	if fallback.Title != "Resource 101" {
		t.Errorf("title = %q, want %q", fallback.Title, "Resource 101")
	}
	if len(fallback.Description) != 500 {
		t.Errorf("description should be truncated to 500 chars, got %d", len(fallback.Description))
	}
}

func TestFetcher_NonJSONProducesFallback(t *testing.T) {
	store := &MockObjectStore{
		OnDownload: func(ctx context.Context, container string, path string) ([]byte, error) {
			return []byte("plain text lesson outline"), nil
		},
	}

	fetcher := NewFetcher(store, testConfig())
	record, ok := fetcher.Fetch(context.Background(), resourceModel.FileLocator{
		Container:   "container-a",
		Path:        "lessonplans/MA.K.NSO.1.1/55.txt",
		BenchmarkID: "MA.K.NSO.1.1",
		ResourceID:  "55",
	})
	if !ok {
		t.Fatal("expected a record")
	}

	fallback, isFallback := record.(resourceModel.FallbackResource)
	if !isFallback {
		t.Fatalf("expected FallbackResource, got %T", record)
	}
	if fallback.Title != "Lesson Plan: 55" {
		t.Errorf("title = %q, want %q", fallback.Title, "Lesson Plan: 55")
	}
	if fallback.Description != "plain text lesson outline" {
		t.Errorf("description = %q", fallback.Description)
	}
}

func TestFetcher_ExhaustedRetriesReturnNoRecord(t *testing.T) {
	downloads := 0
	store := &MockObjectStore{
		OnDownload: func(ctx context.Context, container string, path string) ([]byte, error) {
			downloads++
			return nil, blob.Transient(errors.New("timeout"))
		},
	}

	fetcher := NewFetcher(store, testConfig())
	record, ok := fetcher.Fetch(context.Background(), jsonLocator)
	if ok || record != nil {
		t.Fatal("expected definitive failure, got a record")
	}
	if downloads != 3 {
		t.Errorf("expected 3 download attempts, got %d", downloads)
	}
}

func TestFetcher_PermanentErrorNotRetried(t *testing.T) {
	downloads := 0
	store := &MockObjectStore{
		OnDownload: func(ctx context.Context, container string, path string) ([]byte, error) {
			downloads++
			return nil, errors.New("404 not found")
		},
	}

	fetcher := NewFetcher(store, testConfig())
	_, ok := fetcher.Fetch(context.Background(), jsonLocator)
	if ok {
		t.Fatal("expected failure")
	}
	if downloads != 1 {
		t.Errorf("permanent errors should not retry, got %d attempts", downloads)
	}
}
