package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/data/redisStore"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

type RedisRunStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisRunStore(ctx context.Context) *RedisRunStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisRunStore)
	if backing == nil {
		return nil
	}
	return &RedisRunStore{
		store:  backing,
		logger: logger_i.NewLogger("RunStore"),
	}
}

func (s *RedisRunStore) SaveRun(ctx context.Context, run runModel.Run) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "run Id", run.Id)
	log.Debug("saving run")
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, run.Id, data, config.RedisRunTTL)
	if err == nil {
		log.Debug("Saved run to Redis")
	}
	return err
}

func (s *RedisRunStore) GetRun(ctx context.Context, runId string) (runModel.Run, bool) {
	var run runModel.Run
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "run Id", runId)
	log.Debug("getting run")
	val, err := s.store.Get(ctx, runId)
	if s.store.IsNil(err) {
		return run, false
	} else if err != nil {
		return run, false
	}

	err = json.Unmarshal([]byte(val), &run)
	if err != nil {
		return run, false
	}

	log.Debug("Run found in Redis")
	return run, true
}

func (s *RedisRunStore) DeleteRun(ctx context.Context, runID string) {
	err := s.store.Del(ctx, runID)
	if err != nil {
		s.logger.Error("Error deleting run from Redis", "runId", runID)
		return
	}
	s.logger.Debug("Run deleted from Redis", "runId", runID)
}

func TestRunStore(store *redisStore.Store) *RedisRunStore {
	return &RedisRunStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
