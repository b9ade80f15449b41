package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/LessonIndexer/internal/api"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
)

func ToInitRunResponse(id string) api.InitRunResponse {
	return api.InitRunResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("runs/%s", id),
	}
}

func ToAPIResponse(run runModel.Run) api.RunResponse {

	var errorPtr *api.RunOutgoingError
	if run.Error.Message != "" || run.Error.Code != 0 {
		errorPtr = &api.RunOutgoingError{
			Code:    run.Error.Code,
			Message: run.Error.Message,
			Retry:   run.Error.Retry,
		}
	}

	result := api.Result{
		Status:      string(run.Status),
		CurrentStep: string(run.CurrentStep),
		Stats:       ToRunStats(run),
	}

	return api.RunResponse{
		Id:        run.Id,
		StartTime: run.CreatedTime,
		EndTime:   run.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

// ToRunStats is nil until discovery has filled in anything worth reporting.
func ToRunStats(run runModel.Run) *api.RunStatsResponse {
	stats := run.Stats
	if stats.StartTime.IsZero() && stats.TotalFiles == 0 {
		return nil
	}
	return &api.RunStatsResponse{
		TotalContainers:   stats.TotalContainers,
		TotalFiles:        stats.TotalFiles,
		BenchmarkFolders:  stats.BenchmarkFolders,
		SuccessfulIndexes: stats.SuccessfulIndexes,
		FailedIndexes:     stats.FailedIndexes,
		SuccessRate:       stats.SuccessRate(),
		DurationSeconds:   stats.Duration().Seconds(),
		FilesPerSecond:    stats.Throughput(),
		TimedOut:          stats.TimedOut,
	}
}

func BadRequest(id string, error string, code int) api.RunResponse {
	return api.RunResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.RunStatusError),
		},
		Error: &api.RunOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
