package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/embedding"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var instance *client

type client struct {
	api       openai.Client
	model     string
	dimension int
}

// GetOpenAIEmbeddingClient builds the singleton provider. The Azure variant
// and the public API share the same client type; only the options differ.
func GetOpenAIEmbeddingClient(cfg *config.Config, provider config.EmbeddingProvider) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(cfg, provider)
	})

	//if init still fails
	if instance == nil {
		return nil
	}
	return instance
}

func newOpenAIEmbedder(cfg *config.Config, provider config.EmbeddingProvider) {
	var opts []option.RequestOption
	model := cfg.OpenAIEmbeddingModel

	if provider == config.ProviderAzureOpenAI {
		opts = append(opts,
			azure.WithEndpoint(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIAPIVersion),
			azure.WithAPIKey(cfg.AzureOpenAIAPIKey),
		)
		// Azure routes by deployment name rather than model name.
		model = cfg.AzureOpenAIDeployment
	} else {
		opts = append(opts, option.WithAPIKey(cfg.OpenAIAPIKey))
	}

	instance = &client{
		api:       openai.NewClient(opts...),
		model:     model,
		dimension: cfg.EmbeddingDimension,
	}
	logger.Info("OpenAI embedding client created", "provider", string(provider), "model", model)
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Dimensions: openai.Int(int64(c.dimension)),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no data")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

func (c *client) RateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
