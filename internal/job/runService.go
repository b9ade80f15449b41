package job

import (
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
)

// Service carries the shared run queue plumbing: the buffered channel workers
// drain, the dispatcher signal and the run store.
type Service struct {
	RunChannel        chan runModel.Run
	RequestCount      int64
	DispatcherChannel chan bool
	RunStore          runModel.RunStore
}

type ServiceConfig struct {
	RunChannel        chan runModel.Run
	RequestCount      int64
	DispatcherChannel chan bool
	RunStore          runModel.RunStore
}

func InitRunService(cfg ServiceConfig) *Service {
	return &Service{
		RunChannel:        cfg.RunChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		RunStore:          cfg.RunStore,
	}
}
