package store

import (
	"context"
	"sync"

	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem RunStore")

type InMemoryRunStore struct {
	runMutex *sync.RWMutex
	runMap   map[string]runModel.Run
}

func InitInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{
		runMutex: new(sync.RWMutex),
		runMap:   make(map[string]runModel.Run),
	}
}

func (store *InMemoryRunStore) SaveRun(ctx context.Context, runToStore runModel.Run) error {

	store.runMutex.Lock()
	defer store.runMutex.Unlock()
	store.runMap[runToStore.Id] = runToStore
	inMemLogger.Info(runToStore.Id, " : Saved run to store")
	return nil
}

func (store *InMemoryRunStore) GetRun(ctx context.Context, runId string) (runModel.Run, bool) {
	store.runMutex.RLock()
	defer store.runMutex.RUnlock()
	result, found := store.runMap[runId]
	inMemLogger.Info(runId, " : Is run found :", found)
	return result, found
}

func (store *InMemoryRunStore) DeleteRun(ctx context.Context, runID string) {
	store.runMutex.Lock()
	defer store.runMutex.Unlock()
	delete(store.runMap, runID)
}
