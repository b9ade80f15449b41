package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/LessonIndexer/internal/audit"
	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/internal/blob/azureBlob"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/data/store"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/internal/embedding"
	"github.com/akolanti/LessonIndexer/internal/embedding/googleEmbedding"
	"github.com/akolanti/LessonIndexer/internal/embedding/openaiEmbedding"
	"github.com/akolanti/LessonIndexer/internal/handlers"
	"github.com/akolanti/LessonIndexer/internal/job"
	"github.com/akolanti/LessonIndexer/internal/middleware"
	"github.com/akolanti/LessonIndexer/internal/pipeline"
	"github.com/akolanti/LessonIndexer/internal/search/qdrantSearch"
	"github.com/akolanti/LessonIndexer/internal/server"
	"github.com/akolanti/LessonIndexer/internal/worker"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	runOnce           bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	_ = godotenv.Load()
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	cfg := config.FromEnv()
	flag.StringVar(&listenAddr, "listen-addr", cfg.ListenAddr, "server listen address")
	flag.BoolVar(&runOnce, "run-once", false, "execute a single indexing run and exit")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	blobStore, err := azureBlob.NewStore(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("Could not create blob store", "error", err)
		os.Exit(1)
	}

	embedder := buildEmbedder(serviceContext, cfg, logger)
	if embedder == nil {
		logger.Error("Embedding provider failed to initialize. Shutting down.")
		os.Exit(1)
	}
	generator := embedding.NewGenerator(embedder, cfg.EmbeddingDimension, cfg.EmbeddingMaxChars, cfg.RateLimitRetryDelay)

	indexer, err := qdrantSearch.NewClient(cfg)
	if err != nil {
		logger.Error("Could not create search client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := indexer.Close(); err != nil {
			logger.Error("Could not close search client", "error", err)
		}
	}()

	failureLog := buildFailureLog(cfg, blobStore)

	newPipeline := func(containers []string, onStep pipeline.StepFunc) *pipeline.Pipeline {
		p := pipeline.New(cfg,
			pipeline.NewScanner(blobStore, cfg),
			pipeline.NewFetcher(blobStore, cfg),
			pipeline.NewNormalizer(generator),
			indexer,
			failureLog,
		)
		p.Containers = containers
		p.OnStep = onStep
		return p
	}

	if runOnce {
		stats, err := newPipeline(nil, nil).Run(serviceContext)
		if err != nil {
			logger.Error("Indexing run failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Indexing run finished", "successful", stats.SuccessfulIndexes, "failed", stats.FailedIndexes)
		return
	}

	//init buffered run channel
	runChannel := make(chan runModel.Run, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	//init run service and run store
	serviceConfig := job.ServiceConfig{
		RunChannel:        runChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting run service")

	if redisStore := store.GetRedisRunStore(serviceContext); redisStore != nil {
		serviceConfig.RunStore = redisStore
	} else {
		logger.Error("Redis store is offline, using in-memory run store")
		serviceConfig.RunStore = store.InitInMemoryRunStore()
	}
	service := job.InitRunService(serviceConfig)

	handlers.InitRunHandler(service)
	handlers.InitSearchHandler(generator, indexer)
	middleware.Init(cfg)

	//init worker pool
	worker.InitServices(service, func(run runModel.Run, onStep pipeline.StepFunc) worker.Runner {
		return newPipeline(run.Containers, onStep)
	})
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context, cfg *config.Config, logger *logger_i.Logger) embedding.Embedder {
	provider, err := cfg.ResolveEmbeddingProvider()
	if err != nil {
		logger.Error("No embedding provider configured", "error", err)
		return nil
	}
	logger.Info("Using embedding provider", "provider", string(provider))

	switch provider {
	case config.ProviderAzureOpenAI, config.ProviderOpenAI:
		return openaiEmbedding.GetOpenAIEmbeddingClient(cfg, provider)
	case config.ProviderGoogle:
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, cfg)
	}
	return nil
}

func buildFailureLog(cfg *config.Config, blobStore blob.ObjectStore) audit.FailureLog {
	if cfg.AuditContainer != "" {
		return audit.NewBlobLog(blobStore, cfg.AuditContainer)
	}
	if cfg.AuditLogPath != "" {
		return audit.NewFileLog(cfg.AuditLogPath)
	}
	return audit.Discard{}
}
