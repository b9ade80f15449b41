package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	TRACE_ID_KEY = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//run requests buffer limit
	BufferLimit = 20

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//vectorDB
	QdrantGrpcPort         = 6334
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//redis
	RedisAddr     = "127.0.0.1:6379"
	RedisRunStore = 0
	RedisRunTTL   = 24 * time.Hour

	//pipeline defaults, overridable from the environment
	DefaultBatchSize            = 6
	DefaultMaxRetries           = 3
	DefaultRetryDelay           = 2 * time.Second
	DefaultScanRetryDelay       = 10 * time.Second
	DefaultDownloadRetryDelay   = 5 * time.Second
	DefaultRateLimitRetryDelay  = 5 * time.Second
	DefaultMaxFilesPerBenchmark = 20
	DefaultMaxTotalFiles        = 500
	DefaultProcessingTimeout    = 30 * time.Minute
	DefaultBatchFlushPause      = 500 * time.Millisecond
	DefaultEmbeddingDimension   = 1536
	DefaultEmbeddingMaxChars    = 8000

	BlobPathPrefix = "lessonplans/"
)

type EmbeddingProvider string

const (
	ProviderAzureOpenAI EmbeddingProvider = "azure-openai"
	ProviderOpenAI      EmbeddingProvider = "openai"
	ProviderGoogle      EmbeddingProvider = "google"
)

// Config is built once in main from the environment and handed to every
// component's constructor. Components never read the environment themselves.
type Config struct {
	//search backend
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	QdrantUseTLS bool
	IndexName    string

	//blob storage
	StorageConnectionString string
	StorageContainers       []string

	//embedding credentials - azure openai and plain openai are mutually
	//exclusive, google is the standalone third option
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string
	OpenAIAPIKey          string
	OpenAIEmbeddingModel  string
	GoogleAPIKey          string
	GoogleEmbeddingModel  string

	EmbeddingDimension int
	EmbeddingMaxChars  int

	//pipeline knobs
	BatchSize            int
	MaxRetries           int
	RetryDelay           time.Duration
	ScanRetryDelay       time.Duration
	DownloadRetryDelay   time.Duration
	RateLimitRetryDelay  time.Duration
	MaxFilesPerBenchmark int
	MaxTotalFiles        int
	ProcessingTimeout    time.Duration
	BatchFlushPause      time.Duration

	//failed-file audit log
	AuditLogPath   string
	AuditContainer string

	//server
	ListenAddr   string
	AuthToken    string
	NoAuthBypass bool
}

// FromEnv reads the configuration surface. Missing values fall back to the
// defaults above; Validate decides what is actually required.
func FromEnv() *Config {
	cfg := &Config{
		QdrantHost:   os.Getenv("QDRANT_HOST"),
		QdrantPort:   envInt("QDRANT_PORT", QdrantGrpcPort),
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),
		QdrantUseTLS: envBool("QDRANT_USE_TLS"),
		IndexName:    os.Getenv("SEARCH_INDEX_NAME"),

		StorageConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
		StorageContainers:       splitContainers(os.Getenv("STORAGE_CONTAINERS")),

		AzureOpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureOpenAIDeployment: os.Getenv("AZURE_OPENAI_EMBEDDING_DEPLOYMENT"),
		AzureOpenAIAPIVersion: envString("AZURE_OPENAI_API_VERSION", "2024-06-01"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIEmbeddingModel:  envString("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		GoogleAPIKey:          os.Getenv("GOOGLE_API_KEY"),
		GoogleEmbeddingModel:  envString("GOOGLE_EMBEDDING_MODEL", "gemini-embedding-001"),

		EmbeddingDimension: envInt("EMBEDDING_DIMENSION", DefaultEmbeddingDimension),
		EmbeddingMaxChars:  envInt("EMBEDDING_MAX_CHARS", DefaultEmbeddingMaxChars),

		BatchSize:            envInt("BATCH_SIZE", DefaultBatchSize),
		MaxRetries:           envInt("MAX_RETRIES", DefaultMaxRetries),
		RetryDelay:           envSeconds("RETRY_DELAY_SECONDS", DefaultRetryDelay),
		ScanRetryDelay:       envSeconds("SCAN_RETRY_DELAY_SECONDS", DefaultScanRetryDelay),
		DownloadRetryDelay:   envSeconds("DOWNLOAD_RETRY_DELAY_SECONDS", DefaultDownloadRetryDelay),
		RateLimitRetryDelay:  DefaultRateLimitRetryDelay,
		MaxFilesPerBenchmark: envInt("MAX_FILES_PER_BENCHMARK", DefaultMaxFilesPerBenchmark),
		MaxTotalFiles:        envInt("MAX_TOTAL_FILES", DefaultMaxTotalFiles),
		ProcessingTimeout:    time.Duration(envInt("PROCESSING_TIMEOUT_MINUTES", int(DefaultProcessingTimeout/time.Minute))) * time.Minute,
		BatchFlushPause:      DefaultBatchFlushPause,

		AuditLogPath:   envString("FAILED_FILES_LOG", "failed_files_log.txt"),
		AuditContainer: os.Getenv("AUDIT_LOG_CONTAINER"),

		ListenAddr:   envString("LISTEN_ADDR", ServerListenAddr),
		AuthToken:    os.Getenv("AUTH_TOKEN"),
		NoAuthBypass: envBool("NO_AUTH_BYPASS"),
	}
	return cfg
}

// Validate collects every missing required setting so the operator sees the
// full list at once, not just the first failure.
func (c *Config) Validate() error {
	var missing []string

	if c.QdrantHost == "" {
		missing = append(missing, "QDRANT_HOST")
	}
	if c.IndexName == "" {
		missing = append(missing, "SEARCH_INDEX_NAME")
	}
	if c.StorageConnectionString == "" {
		missing = append(missing, "STORAGE_CONNECTION_STRING")
	}
	if len(c.StorageContainers) == 0 {
		missing = append(missing, "STORAGE_CONTAINERS")
	}

	if _, err := c.ResolveEmbeddingProvider(); err != nil {
		missing = append(missing, err.Error())
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ResolveEmbeddingProvider picks the embedding backend from whichever
// credential set is present. Azure OpenAI and plain OpenAI cannot both be
// configured; Azure wins ties with Google since it carries its own endpoint.
func (c *Config) ResolveEmbeddingProvider() (EmbeddingProvider, error) {
	azureConfigured := c.AzureOpenAIEndpoint != "" && c.AzureOpenAIAPIKey != "" && c.AzureOpenAIDeployment != ""
	openaiConfigured := c.OpenAIAPIKey != ""
	googleConfigured := c.GoogleAPIKey != ""

	if azureConfigured && openaiConfigured {
		return "", fmt.Errorf("AZURE_OPENAI_* and OPENAI_API_KEY are mutually exclusive")
	}

	switch {
	case azureConfigured:
		return ProviderAzureOpenAI, nil
	case openaiConfigured:
		return ProviderOpenAI, nil
	case googleConfigured:
		return ProviderGoogle, nil
	}
	return "", fmt.Errorf("one of AZURE_OPENAI_*, OPENAI_API_KEY or GOOGLE_API_KEY")
}

func splitContainers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func envString(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return time.Duration(v) * time.Second
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
