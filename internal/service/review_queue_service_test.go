package service

import (
	"encoding/json"
	"testing"

	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewQueueService(t *testing.T) (*ReviewQueueService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReviewQueueService(repository.NewReviewQueueRepository(db), db, nil), db
}

func createPendingItem(t *testing.T, db *gorm.DB, variationID string, patch []model.FieldPatch) *model.ReviewQueueItem {
	t.Helper()
	item := &model.ReviewQueueItem{
		ResultID:    model.GenerateUUID(),
		VariationID: variationID,
		RiskLevel:   model.RiskHigh,
		FixStatus:   model.FixPending,
	}
	if patch != nil {
		raw, err := json.Marshal(patch)
		require.NoError(t, err)
		item.Patch = raw
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func reloadItem(t *testing.T, db *gorm.DB, id string) *model.ReviewQueueItem {
	t.Helper()
	var item model.ReviewQueueItem
	require.NoError(t, db.Where("id = ?", id).First(&item).Error)
	return &item
}

func TestApproveAppliesPatchAndClosesItem(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		Stem:    "old stem",
		OptionA: "old A",
	})
	item := createPendingItem(t, db, v.ID, []model.FieldPatch{
		{Field: "stem", OriginalValue: "old stem", ProposedValue: "new stem"},
		{Field: "optionA", OriginalValue: "old A", ProposedValue: "new A"},
	})

	require.NoError(t, svc.Approve(item.ID))

	got := reloadVariation(t, db, v.ID)
	assert.Equal(t, "new stem", got.Stem)
	assert.Equal(t, "new A", got.OptionA)

	closed := reloadItem(t, db, item.ID)
	assert.Equal(t, model.FixApplied, closed.FixStatus)
	assert.NotNil(t, closed.ReviewedAt)
}

func TestApproveTwiceIsConflictNotDoubleApply(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		Stem: "old stem",
	})
	item := createPendingItem(t, db, v.ID, []model.FieldPatch{
		{Field: "stem", ProposedValue: "new stem"},
	})

	require.NoError(t, svc.Approve(item.ID))
	err := svc.Approve(item.ID)
	assert.ErrorIs(t, err, util.ErrReviewItemResolved)

	assert.Equal(t, "new stem", reloadVariation(t, db, v.ID).Stem)
}

func TestApproveRejectsUnknownPatchField(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		Stem: "old stem",
	})
	item := createPendingItem(t, db, v.ID, []model.FieldPatch{
		{Field: "stem", ProposedValue: "new stem"},
		{Field: "isVisible", ProposedValue: "false"},
	})

	err := svc.Approve(item.ID)
	assert.ErrorIs(t, err, util.ErrUnknownPatchField)

	// Nothing was written.
	assert.Equal(t, "old stem", reloadVariation(t, db, v.ID).Stem)
	assert.Equal(t, model.FixPending, reloadItem(t, db, item.ID).FixStatus)
}

func TestApproveRejectsMalformedPatch(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})

	empty := createPendingItem(t, db, v.ID, nil)
	assert.ErrorIs(t, svc.Approve(empty.ID), util.ErrMalformedPatch)

	garbled := createPendingItem(t, db, v.ID, nil)
	require.NoError(t, db.Model(garbled).Update("patch", `{"not":"an array"}`).Error)
	assert.ErrorIs(t, svc.Approve(garbled.ID), util.ErrMalformedPatch)
}

func TestApproveMissingItem(t *testing.T) {
	t.Parallel()
	svc, _ := newReviewQueueService(t)
	assert.ErrorIs(t, svc.Approve(model.GenerateUUID()), util.ErrReviewItemNotFound)
}

func TestRejectRecordsNotesAndLeavesContentAlone(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		Stem: "old stem",
	})
	item := createPendingItem(t, db, v.ID, []model.FieldPatch{
		{Field: "stem", ProposedValue: "new stem"},
	})

	require.NoError(t, svc.Reject(item.ID, "proposal contradicts the source document"))

	assert.Equal(t, "old stem", reloadVariation(t, db, v.ID).Stem)

	closed := reloadItem(t, db, item.ID)
	assert.Equal(t, model.FixRejected, closed.FixStatus)
	assert.Equal(t, "proposal contradicts the source document", closed.ReviewNotes)
	assert.NotNil(t, closed.ReviewedAt)

	assert.ErrorIs(t, svc.Reject(item.ID, "again"), util.ErrReviewItemResolved)
}

func TestListValidatesPriority(t *testing.T) {
	t.Parallel()
	svc, db := newReviewQueueService(t)

	v := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	createPendingItem(t, db, v.ID, nil)

	items, err := svc.List("high")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.List("urgent")
	assert.Error(t, err)
}
