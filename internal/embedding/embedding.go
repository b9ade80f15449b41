package embedding

import "context"

// Embedder is one provider backend. RateLimited classifies the provider's own
// throttling error so the manager can apply its retry-once policy.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	RateLimited(err error) bool
}
