package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/internal/job"
	"github.com/akolanti/LessonIndexer/internal/pipeline"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

// MockRunner to track if runs are executed
type MockRunner struct {
	ExecutedCount int32
	OnStep        pipeline.StepFunc
}

func (m *MockRunner) Run(ctx context.Context) (runModel.PipelineStats, error) {
	atomic.AddInt32(&m.ExecutedCount, 1)
	if m.OnStep != nil {
		m.OnStep(runModel.StateDone, runModel.PipelineStats{SuccessfulIndexes: 1, TotalFiles: 1})
	}
	return runModel.PipelineStats{SuccessfulIndexes: 1, TotalFiles: 1}, nil
}

type MockRunStore struct {
	OnSaveRun func(ctx context.Context, run runModel.Run) error
	mu        sync.Mutex
	saved     []runModel.Run
}

func (m *MockRunStore) GetRun(ctx context.Context, runId string) (runModel.Run, bool) {
	return runModel.Run{}, false
}

func (m *MockRunStore) DeleteRun(ctx context.Context, runID string) {}

func (m *MockRunStore) SaveRun(ctx context.Context, r runModel.Run) error {
	m.mu.Lock()
	m.saved = append(m.saved, r)
	m.mu.Unlock()
	if m.OnSaveRun != nil {
		return m.OnSaveRun(ctx, r)
	}
	return nil
}

func (m *MockRunStore) lastStatus() (runModel.RunStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return "", false
	}
	return m.saved[len(m.saved)-1].Status, true
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	runStore := &MockRunStore{}
	runSvc := &job.Service{
		RunChannel:        make(chan runModel.Run, 10),
		DispatcherChannel: make(chan bool, 10),
		RunStore:          runStore,
	}
	mockRunner := &MockRunner{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(runSvc, func(run runModel.Run, onStep pipeline.StepFunc) Runner {
		mockRunner.OnStep = onStep
		return mockRunner
	})
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		runSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a run", func(t *testing.T) {
		testRun := runModel.Run{Id: "test-1"}
		runSvc.RunChannel <- testRun

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		executed := atomic.LoadInt32(&mockRunner.ExecutedCount)
		if executed != 1 {
			t.Errorf("Expected 1 run executed, got %d", executed)
		}

		status, ok := runStore.lastStatus()
		if !ok || status != runModel.RunStatusComplete {
			t.Errorf("Expected final status COMPLETE, got %q", status)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 2) // retirement only happens above the floor
	idleWorkerTimeout = 50 * time.Millisecond
	defer func() { idleWorkerTimeout = config.IdleWorkerTimeout }()
	logger = logger_i.NewLogger("TestWorkerPool")
	runSvc := &job.Service{
		RunChannel: make(chan runModel.Run),
		RunStore:   &MockRunStore{},
	}
	InitServices(runSvc, func(run runModel.Run, onStep pipeline.StepFunc) Runner { return &MockRunner{} })

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(idleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
