package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		QdrantHost:              "localhost",
		IndexName:               "lessonplans",
		StorageConnectionString: "UseDevelopmentStorage=true",
		StorageContainers:       []string{"a"},
		OpenAIAPIKey:            "sk-test",
	}
}

func TestValidate_ListsEveryMissingKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, key := range []string{"QDRANT_HOST", "SEARCH_INDEX_NAME", "STORAGE_CONNECTION_STRING", "STORAGE_CONTAINERS"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should enumerate %s: %v", key, err)
		}
	}
}

func TestValidate_Passes(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveEmbeddingProvider(t *testing.T) {
	t.Run("azure and openai are mutually exclusive", func(t *testing.T) {
		cfg := validConfig()
		cfg.AzureOpenAIEndpoint = "https://example.openai.azure.com"
		cfg.AzureOpenAIAPIKey = "key"
		cfg.AzureOpenAIDeployment = "embeddings"
		if _, err := cfg.ResolveEmbeddingProvider(); err == nil {
			t.Error("expected an error with both credential sets present")
		}
	})

	t.Run("azure wins when alone", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAIAPIKey = ""
		cfg.AzureOpenAIEndpoint = "https://example.openai.azure.com"
		cfg.AzureOpenAIAPIKey = "key"
		cfg.AzureOpenAIDeployment = "embeddings"
		provider, err := cfg.ResolveEmbeddingProvider()
		if err != nil || provider != ProviderAzureOpenAI {
			t.Errorf("got %v, %v", provider, err)
		}
	})

	t.Run("google as standalone fallback", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAIAPIKey = ""
		cfg.GoogleAPIKey = "g-key"
		provider, err := cfg.ResolveEmbeddingProvider()
		if err != nil || provider != ProviderGoogle {
			t.Errorf("got %v, %v", provider, err)
		}
	})

	t.Run("none configured", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAIAPIKey = ""
		if _, err := cfg.ResolveEmbeddingProvider(); err == nil {
			t.Error("expected an error with no provider configured")
		}
	})
}

func TestSplitContainers(t *testing.T) {
	got := splitContainers(" alpha, beta ,, gamma ")
	if len(got) != 3 || got[0] != "alpha" || got[1] != "beta" || got[2] != "gamma" {
		t.Errorf("splitContainers = %v", got)
	}
}
