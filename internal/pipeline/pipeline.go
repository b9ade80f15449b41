package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/LessonIndexer/internal/audit"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
	"github.com/akolanti/LessonIndexer/internal/domain/resourceModel"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/internal/metrics"
	"github.com/akolanti/LessonIndexer/internal/search"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
	"golang.org/x/time/rate"
)

// StepFunc observes state transitions; the run store subscribes through it.
// It must not block.
type StepFunc func(step runModel.InternalStatus, stats runModel.PipelineStats)

// Pipeline drives one indexing run end to end. A single run is strictly
// sequential: discovery, filtering, batching and upload never overlap.
type Pipeline struct {
	cfg        *config.Config
	scanner    *Scanner
	fetcher    *Fetcher
	normalizer *Normalizer
	indexer    search.DocumentIndexer
	failures   audit.FailureLog
	OnStep     StepFunc
	// Containers narrows this run to a subset of the configured containers;
	// empty means all of them.
	Containers []string
	logger     *logger_i.Logger
}

func New(cfg *config.Config, scanner *Scanner, fetcher *Fetcher, normalizer *Normalizer, indexer search.DocumentIndexer, failures audit.FailureLog) *Pipeline {
	if failures == nil {
		failures = audit.Discard{}
	}
	return &Pipeline{
		cfg:        cfg,
		scanner:    scanner,
		fetcher:    fetcher,
		normalizer: normalizer,
		indexer:    indexer,
		failures:   failures,
		logger:     logger_i.NewLogger("Pipeline"),
	}
}

type pendingDoc struct {
	doc     documentModel.Document
	locator resourceModel.FileLocator
}

// Run executes the state machine. Per-file and per-batch failures are
// absorbed into the returned stats; only configuration and index-bootstrap
// failures surface as errors.
func (p *Pipeline) Run(ctx context.Context) (runModel.PipelineStats, error) {
	stats := runModel.PipelineStats{StartTime: time.Now()}
	loggr := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	fail := func(step runModel.InternalStatus, err error) (runModel.PipelineStats, error) {
		stats.EndTime = time.Now()
		p.step(runModel.StateFailed, stats)
		loggr.Error("pipeline run failed", "step", string(step), "error", err)
		return stats, err
	}

	p.step(runModel.StateIdle, stats)

	if err := p.cfg.Validate(); err != nil {
		return fail(runModel.StateConfigValidated, err)
	}
	p.step(runModel.StateConfigValidated, stats)

	if err := p.indexer.EnsureIndex(ctx); err != nil {
		return fail(runModel.StateIndexEnsured, fmt.Errorf("could not ensure index: %w", err))
	}
	p.step(runModel.StateIndexEnsured, stats)

	p.step(runModel.StateDiscovering, stats)
	containers := p.scopeContainers()
	discovered := p.scanner.Scan(ctx, containers)
	stats.TotalContainers = len(containers)
	if len(discovered) == 0 {
		loggr.Info("no files discovered, ending run")
		stats.EndTime = time.Now()
		p.step(runModel.StateDone, stats)
		return stats, nil
	}

	p.step(runModel.StateFiltering, stats)
	filtered := p.filter(discovered)
	stats.TotalFiles = len(filtered)
	stats.BenchmarkFolders = countBenchmarks(filtered)
	loggr.Info("filtering complete", "discovered", len(discovered), "kept", len(filtered))

	p.step(runModel.StateBatchingIndexing, stats)
	p.processFiles(ctx, filtered, &stats)

	p.step(runModel.StateReporting, stats)
	stats.EndTime = time.Now()
	p.report(loggr, stats)

	p.step(runModel.StateDone, stats)
	return stats, nil
}

// scopeContainers resolves the containers for this run. A requested name
// that is not configured is dropped with a warning, never scanned.
func (p *Pipeline) scopeContainers() []string {
	if len(p.Containers) == 0 {
		return p.cfg.StorageContainers
	}
	configured := make(map[string]bool, len(p.cfg.StorageContainers))
	for _, name := range p.cfg.StorageContainers {
		configured[name] = true
	}
	scoped := make([]string, 0, len(p.Containers))
	for _, name := range p.Containers {
		if !configured[name] {
			p.logger.Warn("requested container is not configured, skipping", "container", name)
			continue
		}
		scoped = append(scoped, name)
	}
	return scoped
}

// filter applies, in order, the total-file cap, the per-benchmark cap and
// run-scoped path deduplication. Discovery order is preserved.
func (p *Pipeline) filter(discovered []resourceModel.FileLocator) []resourceModel.FileLocator {
	if len(discovered) > p.cfg.MaxTotalFiles {
		p.logger.Warn("total file cap exceeded, truncating", "discovered", len(discovered), "cap", p.cfg.MaxTotalFiles)
		discovered = discovered[:p.cfg.MaxTotalFiles]
	}

	perBenchmark := make(map[string]int)
	seen := make(map[string]bool)
	kept := make([]resourceModel.FileLocator, 0, len(discovered))
	for _, locator := range discovered {
		if perBenchmark[locator.BenchmarkID] >= p.cfg.MaxFilesPerBenchmark {
			p.logger.Warn("per-benchmark cap reached, skipping file", "benchmark", locator.BenchmarkID, "path", locator.Path)
			continue
		}
		// A duplicate still consumes its benchmark's budget.
		perBenchmark[locator.BenchmarkID]++
		if seen[locator.Key()] {
			p.logger.Warn("duplicate path skipped", "key", locator.Key())
			continue
		}
		seen[locator.Key()] = true
		kept = append(kept, locator)
	}
	return kept
}

// processFiles walks the filtered list in order, accumulating a batch buffer
// and flushing it at the configured size. The wall-clock deadline is checked
// between files only, so one slow download can still overrun it.
func (p *Pipeline) processFiles(ctx context.Context, files []resourceModel.FileLocator, stats *runModel.PipelineStats) {
	deadline := stats.StartTime.Add(p.cfg.ProcessingTimeout)
	pacer := rate.NewLimiter(rate.Every(p.cfg.BatchFlushPause), 1)

	var batch []pendingDoc
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := pacer.Wait(ctx); err != nil {
			p.logger.Warn("pacing interrupted", "error", err)
		}
		p.processBatch(ctx, batch, stats)
		batch = nil
	}

	for _, locator := range files {
		if time.Now().After(deadline) {
			p.logger.Warn("processing timeout reached, stopping", "processed", stats.SuccessfulIndexes+stats.FailedIndexes)
			stats.TimedOut = true
			break
		}

		record, ok := p.fetcher.Fetch(ctx, locator)
		if !ok {
			stats.FailedIndexes++
			p.failures.Record(ctx, audit.FailedFile{
				Kind:        "DownloadError",
				Path:        locator.Path,
				BenchmarkID: locator.BenchmarkID,
				ResourceID:  locator.ResourceID,
				Reason:      "download failed after retries",
			})
			continue
		}

		result := p.normalizer.PrepareDocument(ctx, record, locator)
		switch result.Outcome {
		case OutcomeSkip:
			stats.FailedIndexes++
			p.failures.Record(ctx, audit.FailedFile{
				Kind:        "PrepareError",
				Path:        locator.Path,
				BenchmarkID: locator.BenchmarkID,
				ResourceID:  locator.ResourceID,
				Reason:      result.Reason,
			})
			continue
		case OutcomeDegraded:
			p.logger.Warn("indexing degraded document", "id", result.Doc.ID, "reason", result.Reason)
		}

		batch = append(batch, pendingDoc{doc: result.Doc, locator: locator})
		if len(batch) >= p.cfg.BatchSize {
			flush()
		}
	}
	flush()
}

// processBatch deduplicates by document id, then retries the whole upload
// with a fixed delay. Partial success is credited; a batch that exhausts its
// retries counts entirely as failed.
func (p *Pipeline) processBatch(ctx context.Context, batch []pendingDoc, stats *runModel.PipelineStats) {
	seen := make(map[string]bool, len(batch))
	unique := make([]pendingDoc, 0, len(batch))
	for _, item := range batch {
		if seen[item.doc.ID] {
			p.logger.Warn("duplicate document id in batch, keeping first", "id", item.doc.ID)
			continue
		}
		seen[item.doc.ID] = true
		unique = append(unique, item)
	}

	docs := make([]documentModel.Document, len(unique))
	for i, item := range unique {
		docs[i] = item.doc
	}

	retry := RetryPolicy{
		MaxAttempts:  p.cfg.MaxRetries,
		InitialDelay: p.cfg.RetryDelay,
		Multiplier:   1,
	}

	var succeeded int
	start := time.Now()
	err := retry.Do(ctx, func() error {
		n, err := p.indexer.IndexBatch(ctx, docs)
		if err != nil {
			return err
		}
		succeeded = n
		return nil
	})
	metrics.CaptureDependencyLatency("search_index", time.Since(start))

	if err != nil {
		p.logger.Error("batch upload failed after retries", "size", len(docs), "error", err)
		stats.FailedIndexes += len(docs)
		metrics.AddDocumentsFailed(len(docs))
		for _, item := range unique {
			p.failures.Record(ctx, audit.FailedFile{
				Kind:        "IndexError",
				Path:        item.locator.Path,
				BenchmarkID: item.locator.BenchmarkID,
				ResourceID:  item.locator.ResourceID,
				Reason:      err.Error(),
			})
		}
		return
	}

	stats.SuccessfulIndexes += succeeded
	stats.FailedIndexes += len(docs) - succeeded
	metrics.AddDocumentsIndexed(succeeded)
	metrics.AddDocumentsFailed(len(docs) - succeeded)
}

func (p *Pipeline) report(loggr *logger_i.Logger, stats runModel.PipelineStats) {
	loggr.Info("pipeline run complete",
		"containers", stats.TotalContainers,
		"files", stats.TotalFiles,
		"benchmarks", stats.BenchmarkFolders,
		"successful", stats.SuccessfulIndexes,
		"failed", stats.FailedIndexes,
		"successRate", fmt.Sprintf("%.1f%%", stats.SuccessRate()),
		"duration", stats.Duration().String(),
		"throughput", fmt.Sprintf("%.2f files/s", stats.Throughput()),
		"timedOut", stats.TimedOut,
	)
}

func (p *Pipeline) step(step runModel.InternalStatus, stats runModel.PipelineStats) {
	if p.OnStep != nil {
		p.OnStep(step, stats)
	}
}

func countBenchmarks(files []resourceModel.FileLocator) int {
	set := make(map[string]bool)
	for _, f := range files {
		set[f.BenchmarkID] = true
	}
	return len(set)
}
