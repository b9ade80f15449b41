package googleEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/embedding"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var once sync.Once
var instance *client

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
}

func GetGoogleEmbeddingClient(ctx context.Context, cfg *config.Config) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, cfg)
	})

	//if init still fails
	if instance == nil {
		return nil
	}
	return instance
}

func newGoogleEmbedder(ctx context.Context, cfg *config.Config) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GoogleAPIKey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return
	}
	instance = &client{
		genAi:     c,
		model:     cfg.GoogleEmbeddingModel,
		dimension: int32(cfg.EmbeddingDimension),
	}
	logger.Info("Google Embedding client created", "model", cfg.GoogleEmbeddingModel)
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: "RETRIEVAL_DOCUMENT"})
	if err != nil {
		return nil, err
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("embedding response carried no values")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) RateLimited(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
