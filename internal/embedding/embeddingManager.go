package embedding

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

// Generator wraps a provider with the pipeline's embedding policy: input
// truncation, a single retry after rate limiting, and a zero-vector fallback
// so one failed embedding never sinks a whole batch.
type Generator struct {
	embedder       Embedder
	dimension      int
	maxChars       int
	rateLimitDelay time.Duration
	logger         *logger_i.Logger
}

func NewGenerator(embedder Embedder, dimension int, maxChars int, rateLimitDelay time.Duration) *Generator {
	return &Generator{
		embedder:       embedder,
		dimension:      dimension,
		maxChars:       maxChars,
		rateLimitDelay: rateLimitDelay,
		logger:         logger_i.NewLogger("EmbeddingManager"),
	}
}

func (g *Generator) Dimension() int { return g.dimension }

// Generate always returns a vector of the configured dimension. Empty input
// short-circuits to zeros without a provider call; provider failures and
// wrong-sized results degrade to zeros after logging.
func (g *Generator) Generate(ctx context.Context, text string) []float32 {
	text = strings.TrimSpace(text)
	if text == "" {
		return make([]float32, g.dimension)
	}
	if len(text) > g.maxChars {
		text = text[:g.maxChars]
	}

	vector, err := g.embedder.EmbedText(ctx, text)
	if err != nil && g.embedder.RateLimited(err) {
		g.logger.Warn("rate limit hit, retrying once", "delay", g.rateLimitDelay)
		select {
		case <-ctx.Done():
			return make([]float32, g.dimension)
		case <-time.After(g.rateLimitDelay):
		}
		vector, err = g.embedder.EmbedText(ctx, text)
	}
	if err != nil {
		g.logger.Error("embedding failed, using zero vector", "error", err)
		return make([]float32, g.dimension)
	}
	if len(vector) != g.dimension {
		g.logger.Error("embedding dimension mismatch, using zero vector", "got", len(vector), "want", g.dimension)
		return make([]float32, g.dimension)
	}
	for _, v := range vector {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			g.logger.Error("embedding contains non-finite values, using zero vector")
			return make([]float32, g.dimension)
		}
	}
	return vector
}
