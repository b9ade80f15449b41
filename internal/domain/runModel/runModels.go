package runModel

import (
	"context"
	"time"
)

type RunStatus string
type InternalStatus string

const (
	RunStatusQueued   RunStatus = "QUEUED"
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusComplete RunStatus = "COMPLETE"
	RunStatusError    RunStatus = "Error"

	//pipeline states, in order of progression
	StateIdle             InternalStatus = "Idle"
	StateConfigValidated  InternalStatus = "ConfigValidated"
	StateIndexEnsured     InternalStatus = "IndexEnsured"
	StateDiscovering      InternalStatus = "Discovering"
	StateFiltering        InternalStatus = "Filtering"
	StateBatchingIndexing InternalStatus = "Batching&Indexing"
	StateReporting        InternalStatus = "Reporting"
	StateDone             InternalStatus = "Done"
	StateFailed           InternalStatus = "Failed"
)

// PipelineStats is owned solely by the orchestrator and updated
// incrementally during a run; everything else only reads it.
type PipelineStats struct {
	TotalContainers   int       `json:"total_containers"`
	TotalFiles        int       `json:"total_files"`
	BenchmarkFolders  int       `json:"benchmark_folders_found"`
	SuccessfulIndexes int       `json:"successful_indexes"`
	FailedIndexes     int       `json:"failed_indexes"`
	TimedOut          bool      `json:"timed_out,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
}

// SuccessRate is successful/total*100; zero when nothing was found.
func (s PipelineStats) SuccessRate() float64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return float64(s.SuccessfulIndexes) / float64(s.TotalFiles) * 100
}

func (s PipelineStats) Duration() time.Duration {
	if s.EndTime.IsZero() || s.StartTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Throughput is files/second over the whole run; zero for a zero duration.
func (s PipelineStats) Throughput() float64 {
	seconds := s.Duration().Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.TotalFiles) / seconds
}

type Run struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	Containers  []string       `json:"containers,omitempty"`
	Status      RunStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
	Stats       PipelineStats  `json:"stats"`
	Error       RunError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
}

type RunError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type RunStore interface {
	GetRun(ctx context.Context, runId string) (Run, bool)
	SaveRun(ctx context.Context, run Run) error
	DeleteRun(ctx context.Context, runId string)
}
