package api

import "time"

type RunExternalStatus string

const (
	RunStatusError RunExternalStatus = "Error"
)

type RunResponse struct {
	Id        string            `json:"id" example:"run_cz109"`
	Result    Result            `json:"result"`
	Error     *RunOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type RunOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Run not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RunStatsResponse struct {
	TotalContainers   int     `json:"total_containers"`
	TotalFiles        int     `json:"total_files"`
	BenchmarkFolders  int     `json:"benchmark_folders_found"`
	SuccessfulIndexes int     `json:"successful_indexes"`
	FailedIndexes     int     `json:"failed_indexes"`
	SuccessRate       float64 `json:"success_rate"`
	DurationSeconds   float64 `json:"duration_seconds"`
	FilesPerSecond    float64 `json:"files_per_second"`
	TimedOut          bool    `json:"timed_out,omitempty"`
}

type Result struct {
	Status      string            `json:"status"`
	CurrentStep string            `json:"current_step,omitempty"`
	Stats       *RunStatsResponse `json:"stats,omitempty"`
}

type InitRunResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type IndexRequest struct {
	// Containers optionally narrows the run to a subset of the configured
	// containers; empty means all of them.
	Containers []string `json:"containers,omitempty"`
}

type SearchResult struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}

type SearchMatch struct {
	Id          string  `json:"id"`
	Score       float32 `json:"score"`
	BenchmarkId string  `json:"benchmark_id,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	ResourceURL string  `json:"resource_url,omitempty"`
}
