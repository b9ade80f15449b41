package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/internal/metrics"
)

func executeRun(run runModel.Run) {
	start := time.Now()
	defer func() {
		metrics.CaptureRunMetrics(string(run.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, run.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 2*time.Hour)
	defer cancel()
	logger.Debug("Processing run:", "run Id:", run.Id)

	saveRunState(ctx, run, runModel.RunStatusRunning)

	// Every state transition the pipeline makes is persisted so status
	// polling sees live progress.
	onStep := func(step runModel.InternalStatus, stats runModel.PipelineStats) {
		run.CurrentStep = step
		run.Stats = stats
		saveRunState(ctx, run, runModel.RunStatusRunning)
	}

	runner := _runnerFactory(run, onStep)
	stats, err := runner.Run(ctx)
	run.Stats = stats
	run.EndTime = time.Now()

	if err != nil {
		run.Error = runModel.RunError{Code: 500, Message: err.Error(), Retry: false}
		run.CurrentStep = runModel.StateFailed
		saveRunState(ctx, run, runModel.RunStatusError)
		return
	}
	run.CurrentStep = runModel.StateDone
	saveRunState(ctx, run, runModel.RunStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveRunState(ctx context.Context, run runModel.Run, runStatus runModel.RunStatus) {
	run.Status = runStatus
	if err := _runService.RunStore.SaveRun(ctx, run); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
