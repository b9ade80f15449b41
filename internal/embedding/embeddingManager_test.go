package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubEmbedder struct {
	OnEmbedText   func(ctx context.Context, text string) ([]float32, error)
	OnRateLimited func(err error) bool
	calls         int
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.OnEmbedText != nil {
		return s.OnEmbedText(ctx, text)
	}
	return []float32{1, 2, 3, 4}, nil
}

func (s *stubEmbedder) RateLimited(err error) bool {
	if s.OnRateLimited != nil {
		return s.OnRateLimited(err)
	}
	return false
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func TestGenerate_EmptyInputSkipsBackend(t *testing.T) {
	stub := &stubEmbedder{}
	gen := NewGenerator(stub, 4, 8000, time.Millisecond)

	for _, input := range []string{"", "   ", "\n\t"} {
		vector := gen.Generate(context.Background(), input)
		if len(vector) != 4 || !isZeroVector(vector) {
			t.Errorf("Generate(%q) should be a zero vector of length 4", input)
		}
	}
	if stub.calls != 0 {
		t.Errorf("backend must not be called for empty input, got %d calls", stub.calls)
	}
}

func TestGenerate_TruncatesLongInput(t *testing.T) {
	var gotLen int
	stub := &stubEmbedder{
		OnEmbedText: func(ctx context.Context, text string) ([]float32, error) {
			gotLen = len(text)
			return []float32{1, 2, 3, 4}, nil
		},
	}
	gen := NewGenerator(stub, 4, 100, time.Millisecond)

	gen.Generate(context.Background(), strings.Repeat("a", 500))
	if gotLen != 100 {
		t.Errorf("input should be truncated to 100 chars, backend saw %d", gotLen)
	}
}

func TestGenerate_RateLimitRetriesOnce(t *testing.T) {
	rateLimitErr := errors.New("429 too many requests")
	stub := &stubEmbedder{
		OnRateLimited: func(err error) bool { return errors.Is(err, rateLimitErr) },
	}
	stub.OnEmbedText = func(ctx context.Context, text string) ([]float32, error) {
		if stub.calls == 1 {
			return nil, rateLimitErr
		}
		return []float32{5, 6, 7, 8}, nil
	}
	gen := NewGenerator(stub, 4, 8000, time.Millisecond)

	vector := gen.Generate(context.Background(), "some lesson text")
	if stub.calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", stub.calls)
	}
	if isZeroVector(vector) {
		t.Error("retry succeeded, vector should not be zero")
	}
}

func TestGenerate_NonRateLimitErrorYieldsZeroVector(t *testing.T) {
	stub := &stubEmbedder{
		OnEmbedText: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("boom")
		},
	}
	gen := NewGenerator(stub, 4, 8000, time.Millisecond)

	vector := gen.Generate(context.Background(), "text")
	if stub.calls != 1 {
		t.Errorf("non-rate-limit errors must not retry, got %d calls", stub.calls)
	}
	if len(vector) != 4 || !isZeroVector(vector) {
		t.Error("expected zero vector fallback")
	}
}

func TestGenerate_DimensionMismatchYieldsZeroVector(t *testing.T) {
	stub := &stubEmbedder{
		OnEmbedText: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 2}, nil
		},
	}
	gen := NewGenerator(stub, 4, 8000, time.Millisecond)

	vector := gen.Generate(context.Background(), "text")
	if len(vector) != 4 || !isZeroVector(vector) {
		t.Error("wrong-sized result must degrade to a zero vector of the configured dimension")
	}
}
