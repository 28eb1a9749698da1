package service

import (
	"encoding/json"
	"testing"
	"time"

	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBackfillService(t *testing.T) (*BackfillService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewBackfillService(
		repository.NewVariationRepository(db),
		repository.NewSweepRepository(db),
	), db
}

func createVariation(t *testing.T, db *gorm.DB, v *model.QuestionVariation) *model.QuestionVariation {
	t.Helper()
	if v.Stem == "" {
		v.Stem = "stem"
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func createResult(t *testing.T, db *gorm.DB, variationID string, score *float64, diagnosis string, createdAt time.Time) *model.QASweepResult {
	t.Helper()
	res := &model.QASweepResult{
		RunID:           model.GenerateUUID(),
		VariationID:     variationID,
		ConfidenceScore: score,
	}
	if diagnosis != "" {
		res.Diagnosis = json.RawMessage(diagnosis)
	}
	res.CreatedAt = createdAt
	require.NoError(t, db.Create(res).Error)
	return res
}

func floatp(v float64) *float64 { return &v }

func reloadVariation(t *testing.T, db *gorm.DB, id string) *model.QuestionVariation {
	t.Helper()
	var v model.QuestionVariation
	require.NoError(t, db.Where("id = ?", id).First(&v).Error)
	return &v
}

func TestBackfillDirectCopiesLatestResult(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	createResult(t, db, v.ID, floatp(0.40), "", older)
	createResult(t, db, v.ID, floatp(0.90), "", newer)

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.DirectUpdated)
	assert.Equal(t, 0, report.InheritedUpdated)

	got := reloadVariation(t, db, v.ID)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 0.90, *got.ConfidenceScore, 1e-9)
	require.NotNil(t, got.LastQADate)
	assert.WithinDuration(t, newer, *got.LastQADate, time.Second)
}

func TestBackfillLeavesScoredVariationsAlone(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		ConfidenceScore: floatp(0.50),
	})
	createResult(t, db, v.ID, floatp(0.95), "", time.Now())

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, report.DirectUpdated)

	got := reloadVariation(t, db, v.ID)
	assert.InDelta(t, 0.50, *got.ConfidenceScore, 1e-9)
}

func TestBackfillIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	createResult(t, db, v.ID, floatp(0.80), "", time.Now())

	first, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, first.DirectUpdated)

	second, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, second.DirectUpdated)
	assert.Equal(t, 0, second.InheritedUpdated)
}

func TestBackfillDirectSkipsResultWithoutScore(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	createResult(t, db, v.ID, nil, "", time.Now())

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, report.DirectUpdated)
	assert.Equal(t, 1, report.Skipped)
	assert.Nil(t, reloadVariation(t, db, v.ID).ConfidenceScore)
}

func TestBackfillInheritsFromParentSeverity(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	parent := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		ConfidenceScore: floatp(0.25),
	})
	resultAt := time.Now().Add(-30 * time.Minute)
	createResult(t, db, parent.ID, floatp(0.25), `{"severidad_global": 2}`, resultAt)

	child := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 2,
		ParentVersionID: &parent.ID,
	})

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.InheritedUpdated)

	got := reloadVariation(t, db, child.ID)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 0.75, *got.ConfidenceScore, 1e-9)
	require.NotNil(t, got.LastQADate)
	assert.WithinDuration(t, resultAt, *got.LastQADate, time.Second)
}

func TestBackfillInheritsDefaultSeverityWhenDiagnosisOmitsIt(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	parent := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 1,
		ConfidenceScore: floatp(0.30),
	})
	createResult(t, db, parent.ID, floatp(0.30), `{"riesgo": "medium"}`, time.Now())

	child := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 1, Version: 2,
		ParentVersionID: &parent.ID,
	})

	_, err := svc.Run()
	require.NoError(t, err)

	// Missing severidad_global is treated as severity 1.
	got := reloadVariation(t, db, child.ID)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 0.85, *got.ConfidenceScore, 1e-9)
}

func TestBackfillFallsBackToLineageFirstVersion(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v1 := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 7, VariationNumber: 3, Version: 1,
		ConfidenceScore: floatp(0.10),
	})
	createResult(t, db, v1.ID, floatp(0.10), `{"severidad_global": 0}`, time.Now())

	// The direct parent (v2) was never diagnosed.
	v2 := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 7, VariationNumber: 3, Version: 2,
		ParentVersionID: &v1.ID,
		ConfidenceScore: floatp(0.90),
	})
	v3 := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 7, VariationNumber: 3, Version: 3,
		ParentVersionID: &v2.ID,
	})

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.InheritedUpdated)

	got := reloadVariation(t, db, v3.ID)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 1.0, *got.ConfidenceScore, 1e-9)
}

func TestBackfillSkipsLineageWithoutResults(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	v1 := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 9, VariationNumber: 1, Version: 1,
		ConfidenceScore: floatp(0.40),
	})
	v2 := createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 9, VariationNumber: 1, Version: 2,
		ParentVersionID: &v1.ID,
	})

	report, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, report.InheritedUpdated)
	assert.Equal(t, 1, report.Skipped)
	assert.Nil(t, reloadVariation(t, db, v2.ID).ConfidenceScore)
}

func TestBackfillReportsDistribution(t *testing.T) {
	t.Parallel()
	svc, db := newBackfillService(t)

	createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 2, Version: 1,
		ConfidenceScore: floatp(0.20),
	})
	createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 3, Version: 1,
		ConfidenceScore: floatp(0.50),
	})
	createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 4, Version: 1,
		ConfidenceScore: floatp(0.95),
	})

	report, err := svc.Run()
	require.NoError(t, err)
	require.NotNil(t, report.Distribution)

	d := report.Distribution
	assert.Equal(t, int64(1), d.None)
	assert.Equal(t, int64(1), d.Low)
	assert.Equal(t, int64(1), d.Medium)
	assert.Equal(t, int64(1), d.High)
	assert.Equal(t, int64(4), d.Total)
}
