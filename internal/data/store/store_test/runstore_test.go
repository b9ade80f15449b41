package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/data/redisStore"
	"github.com/akolanti/LessonIndexer/internal/data/store"
	"github.com/akolanti/LessonIndexer/internal/domain/runModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisRunStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	runStore := store.TestRunStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	runID := "run_abc_123"

	testRun := runModel.Run{
		Id:          runID,
		Status:      runModel.RunStatusRunning,
		CurrentStep: runModel.StateDiscovering,
		Stats: runModel.PipelineStats{
			TotalFiles:        12,
			SuccessfulIndexes: 7,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := runStore.SaveRun(ctx, testRun)
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}

		retrievedRun, found := runStore.GetRun(ctx, runID)
		if !found {
			t.Fatal("Run was saved but not found in Redis")
		}

		if retrievedRun.Stats.SuccessfulIndexes != testRun.Stats.SuccessfulIndexes {
			t.Errorf("Data mismatch! Got %d, want %d",
				retrievedRun.Stats.SuccessfulIndexes, testRun.Stats.SuccessfulIndexes)
		}
		if retrievedRun.CurrentStep != runModel.StateDiscovering {
			t.Errorf("CurrentStep = %s, want %s", retrievedRun.CurrentStep, runModel.StateDiscovering)
		}
	})

	t.Run("Get Non-Existent Run", func(t *testing.T) {
		_, found := runStore.GetRun(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Run", func(t *testing.T) {
		runStore.DeleteRun(ctx, runID)

		// Verify it's gone from miniredis
		if mr.Exists(runID) {
			t.Error("Run still exists in Redis after DeleteRun call")
		}
	})
}

func TestRedisRunStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	runStore := store.TestRunStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	run := runModel.Run{Id: "race-run"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = runStore.SaveRun(ctx, run)
			_, _ = runStore.GetRun(ctx, "race-run")
		}()
	}
}
