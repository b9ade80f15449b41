package audit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFailedFileLine(t *testing.T) {
	failure := FailedFile{
		Kind:        "DownloadError",
		Path:        "lessonplans/MA.K.NSO.1.1/101.json",
		BenchmarkID: "MA.K.NSO.1.1",
		ResourceID:  "101",
		Reason:      "download failed after retries",
	}
	want := "[DownloadError] File: lessonplans/MA.K.NSO.1.1/101.json, BenchmarkID: MA.K.NSO.1.1, ResourceID: 101 - Reason: download failed after retries\n"
	if got := failure.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestFileLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_files_log.txt")
	log := NewFileLog(path)

	log.Record(context.Background(), FailedFile{Kind: "DownloadError", Path: "a.json", Reason: "one"})
	log.Record(context.Background(), FailedFile{Kind: "IndexError", Path: "b.json", Reason: "two"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[DownloadError]") || !strings.HasPrefix(lines[1], "[IndexError]") {
		t.Errorf("entries out of order or malformed: %v", lines)
	}
}
