package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/internal/job"
	"github.com/akolanti/LessonIndexer/internal/metrics"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

var (
	handlerInstance *RunHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type RunHandler struct {
	service *job.Service
}

func InitRunHandler(runService *job.Service) {
	once.Do(func() {
		handlerInstance = &RunHandler{service: runService}

		logJH = logger_i.NewLogger("RunHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting run handler")
	})

}

func CreateNewRun(newRun newRunData) {
	logJH.With("traceId", newRun.traceId, "run id", newRun.id)
	logJH.Info("To create new run")
	handlerInstance.pushToRunChannel(newRun)
}

func GetRunStatus(id string, traceId string) (result runModel.Run, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.RunStore.GetRun(ctxC, id)
	}
	return result, false
}

// private methods
func (h *RunHandler) pushToRunChannel(newRun newRunData) {

	_run := runModel.Run{}
	_run.Id = newRun.id
	_run.CreatedTime = time.Now()
	_run.TraceId = newRun.traceId
	_run.Status = runModel.RunStatusQueued
	_run.CurrentStep = runModel.StateIdle
	_run.Containers = newRun.containers

	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newRun.traceId)
	if err := h.service.RunStore.SaveRun(ctxC, _run); err != nil {
		logJH.Error("Failed to save queued run", "err", err)
	}

	//metrics
	metrics.IncrementRunsInQueue()

	h.service.RunChannel <- _run //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new run")

	// An indexing run is long work, so every enqueue also nudges the
	// dispatcher toward adding a worker.
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || len(h.service.RunChannel) > 0 {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
