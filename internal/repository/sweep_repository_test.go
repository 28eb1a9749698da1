package repository

import (
	"testing"
	"time"

	"eunacom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRun(t *testing.T, repo *SweepRepository, status model.SweepRunStatus, startedAt *time.Time) *model.QASweepRun {
	t.Helper()
	run := &model.QASweepRun{
		Name:      "nightly sweep",
		Status:    status,
		StartedAt: startedAt,
	}
	require.NoError(t, repo.CreateRun(run))
	return run
}

func timep(v time.Time) *time.Time { return &v }

func TestFindStuckRuns(t *testing.T) {
	t.Parallel()
	repo := NewSweepRepository(newTestDB(t))

	cutoff := time.Now().Add(-30 * time.Minute)
	longAgo := time.Now().Add(-2 * time.Hour)

	stuck := seedRun(t, repo, model.SweepRunRunning, timep(longAgo))

	// Still producing results: a result after the cutoff means progress.
	active := seedRun(t, repo, model.SweepRunRunning, timep(longAgo))
	res := &model.QASweepResult{RunID: active.ID, VariationID: model.GenerateUUID()}
	require.NoError(t, repo.CreateResult(res))

	// Started after the cutoff: slow, not stuck.
	seedRun(t, repo, model.SweepRunRunning, timep(time.Now().Add(-5*time.Minute)))

	// Terminal states are never stuck.
	seedRun(t, repo, model.SweepRunCompleted, timep(longAgo))
	seedRun(t, repo, model.SweepRunFailed, timep(longAgo))
	seedRun(t, repo, model.SweepRunPending, nil)

	got, err := repo.FindStuckRuns(cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stuck.ID, got[0].ID)
}

func TestMarkRunFailedOnlyMovesRunningRuns(t *testing.T) {
	t.Parallel()
	repo := NewSweepRepository(newTestDB(t))

	run := seedRun(t, repo, model.SweepRunRunning, timep(time.Now().Add(-time.Hour)))
	require.NoError(t, repo.MarkRunFailed(run.ID))

	got, err := repo.FindRunByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SweepRunFailed, got.Status)
	assert.NotNil(t, got.FinishedAt)

	done := seedRun(t, repo, model.SweepRunCompleted, timep(time.Now().Add(-time.Hour)))
	require.NoError(t, repo.MarkRunFailed(done.ID))

	got, err = repo.FindRunByID(done.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SweepRunCompleted, got.Status)
}

func TestAggregateRunStats(t *testing.T) {
	t.Parallel()
	repo := NewSweepRepository(newTestDB(t))

	run := seedRun(t, repo, model.SweepRunCompleted, timep(time.Now()))
	require.NoError(t, repo.CreateResult(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		TokensIn: 100, TokensOut: 40, LatencyMs: 200,
	}))
	require.NoError(t, repo.CreateResult(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		TokensIn: 300, TokensOut: 60, LatencyMs: 400,
	}))

	stats, err := repo.AggregateRunStats(run.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ResultCount)
	assert.Equal(t, int64(400), stats.TokensIn)
	assert.Equal(t, int64(100), stats.TokensOut)
	assert.InDelta(t, 300, stats.AvgLatencyMs, 1e-9)
}

func TestAggregateRunStatsEmptyRun(t *testing.T) {
	t.Parallel()
	repo := NewSweepRepository(newTestDB(t))

	run := seedRun(t, repo, model.SweepRunPending, nil)
	stats, err := repo.AggregateRunStats(run.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.ResultCount)
	assert.Zero(t, stats.TokensIn)
	assert.Zero(t, stats.AvgLatencyMs)
}
