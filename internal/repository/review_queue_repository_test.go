package repository

import (
	"testing"

	"eunacom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, repo *ReviewQueueRepository, risk model.RiskLevel, status model.FixStatus) *model.ReviewQueueItem {
	t.Helper()
	item := &model.ReviewQueueItem{
		ResultID:    model.GenerateUUID(),
		VariationID: model.GenerateUUID(),
		RiskLevel:   risk,
		FixStatus:   status,
	}
	require.NoError(t, repo.Create(item))
	return item
}

func TestListPendingOrdersByRiskThenAge(t *testing.T) {
	t.Parallel()
	repo := NewReviewQueueRepository(newTestDB(t))

	low := seedItem(t, repo, model.RiskLow, model.FixPending)
	firstHigh := seedItem(t, repo, model.RiskHigh, model.FixPending)
	medium := seedItem(t, repo, model.RiskMedium, model.FixPending)
	secondHigh := seedItem(t, repo, model.RiskHigh, model.FixPending)
	seedItem(t, repo, model.RiskHigh, model.FixApplied)

	items, err := repo.ListPending("")
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, firstHigh.ID, items[0].ID)
	assert.Equal(t, secondHigh.ID, items[1].ID)
	assert.Equal(t, medium.ID, items[2].ID)
	assert.Equal(t, low.ID, items[3].ID)
}

func TestListPendingFiltersByRisk(t *testing.T) {
	t.Parallel()
	repo := NewReviewQueueRepository(newTestDB(t))

	seedItem(t, repo, model.RiskHigh, model.FixPending)
	seedItem(t, repo, model.RiskMedium, model.FixPending)

	items, err := repo.ListPending(model.RiskMedium)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.RiskMedium, items[0].RiskLevel)
}

func TestCountPending(t *testing.T) {
	t.Parallel()
	repo := NewReviewQueueRepository(newTestDB(t))

	seedItem(t, repo, model.RiskHigh, model.FixPending)
	seedItem(t, repo, model.RiskLow, model.FixPending)
	seedItem(t, repo, model.RiskLow, model.FixRejected)

	count, err := repo.CountPending()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
