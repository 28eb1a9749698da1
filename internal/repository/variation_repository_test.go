package repository

import (
	"testing"

	"eunacom_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVariation(t *testing.T, repo *VariationRepository, score *float64, visible bool) *model.QuestionVariation {
	t.Helper()
	v := &model.QuestionVariation{
		BaseQuestionID:  1,
		VariationNumber: 1,
		Version:         1,
		Stem:            "stem",
		ConfidenceScore: score,
		IsVisible:       visible,
	}
	require.NoError(t, repo.Create(v))
	return v
}

func TestConfidenceDistributionPartitionsVisibleVariations(t *testing.T) {
	t.Parallel()
	repo := NewVariationRepository(newTestDB(t))

	seedVariation(t, repo, nil, true)
	seedVariation(t, repo, floatp(0.10), true)
	seedVariation(t, repo, floatp(0.33), true)
	// Bucket boundaries are inclusive on the left.
	seedVariation(t, repo, floatp(0.34), true)
	seedVariation(t, repo, floatp(0.66), true)
	seedVariation(t, repo, floatp(0.67), true)
	seedVariation(t, repo, floatp(1.0), true)
	// Hidden rows do not count.
	seedVariation(t, repo, floatp(0.95), false)

	d, err := repo.CountConfidenceDistribution()
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.None)
	assert.Equal(t, int64(2), d.Low)
	assert.Equal(t, int64(2), d.Medium)
	assert.Equal(t, int64(2), d.High)
	assert.Equal(t, int64(7), d.Total)
	assert.Equal(t, d.Total, d.None+d.Low+d.Medium+d.High)
}

func TestHideByIDs(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewVariationRepository(db)

	a := seedVariation(t, repo, floatp(0.5), true)
	b := seedVariation(t, repo, floatp(0.5), true)
	keep := seedVariation(t, repo, floatp(0.5), true)

	hidden, err := repo.HideByIDs([]string{a.ID, b.ID, "no-such-id"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hidden)

	vs, total, err := repo.ListVisible(VariationFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, vs, 1)
	assert.Equal(t, keep.ID, vs[0].ID)

	// The hidden rows are soft-deleted, not gone.
	var count int64
	require.NoError(t, db.Unscoped().Model(&model.QuestionVariation{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestHideByIDsEmptyInput(t *testing.T) {
	t.Parallel()
	repo := NewVariationRepository(newTestDB(t))

	hidden, err := repo.HideByIDs(nil)
	require.NoError(t, err)
	assert.Zero(t, hidden)
}
