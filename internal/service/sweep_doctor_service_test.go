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

func newSweepDoctor(t *testing.T) (*SweepDoctorService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewSweepDoctorService(
		repository.NewSweepRepository(db),
		repository.NewVariationRepository(db),
	), db
}

func createRun(t *testing.T, db *gorm.DB, status model.SweepRunStatus, startedAt time.Time) *model.QASweepRun {
	t.Helper()
	run := &model.QASweepRun{Name: "sweep", Status: status, StartedAt: &startedAt}
	require.NoError(t, db.Create(run).Error)
	return run
}

func TestHealStuckRuns(t *testing.T) {
	t.Parallel()
	svc, db := newSweepDoctor(t)

	stuck := createRun(t, db, model.SweepRunRunning, time.Now().Add(-2*time.Hour))
	fresh := createRun(t, db, model.SweepRunRunning, time.Now().Add(-5*time.Minute))

	healed, err := svc.HealStuckRuns(30 * time.Minute)
	require.NoError(t, err)
	require.Len(t, healed, 1)
	assert.Equal(t, stuck.ID, healed[0].ID)

	var got model.QASweepRun
	require.NoError(t, db.Where("id = ?", stuck.ID).First(&got).Error)
	assert.Equal(t, model.SweepRunFailed, got.Status)

	require.NoError(t, db.Where("id = ?", fresh.ID).First(&got).Error)
	assert.Equal(t, model.SweepRunRunning, got.Status)
}

func TestHealStuckRunsIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, db := newSweepDoctor(t)

	createRun(t, db, model.SweepRunRunning, time.Now().Add(-2*time.Hour))

	healed, err := svc.HealStuckRuns(30 * time.Minute)
	require.NoError(t, err)
	assert.Len(t, healed, 1)

	healed, err = svc.HealStuckRuns(30 * time.Minute)
	require.NoError(t, err)
	assert.Empty(t, healed)
}

func TestReportSections(t *testing.T) {
	t.Parallel()
	svc, db := newSweepDoctor(t)

	run := createRun(t, db, model.SweepRunCompleted, time.Now())
	diag := func(severity int) json.RawMessage {
		raw, err := json.Marshal(model.Diagnosis{SeveridadGlobal: &severity})
		require.NoError(t, err)
		return raw
	}
	require.NoError(t, db.Create(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		Diagnosis: diag(0), TokensIn: 100, TokensOut: 20,
	}).Error)
	require.NoError(t, db.Create(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		Diagnosis: diag(2), TokensIn: 200, TokensOut: 30,
	}).Error)
	require.NoError(t, db.Create(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		TokensIn: 50, TokensOut: 10,
	}).Error)

	report, err := svc.Report(SweepReportOptions{Severity: true, Tokens: true})
	require.NoError(t, err)

	assert.Nil(t, report.Distribution)
	assert.Equal(t, 3, report.ResultCount)
	assert.Equal(t, map[string]int{"0": 1, "2": 1, "unknown": 1}, report.SeverityHistogram)
	assert.Equal(t, int64(350), report.TokensIn)
	assert.Equal(t, int64(60), report.TokensOut)
}

func TestReportDistributionOnly(t *testing.T) {
	t.Parallel()
	svc, db := newSweepDoctor(t)

	createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})

	report, err := svc.Report(SweepReportOptions{Distribution: true})
	require.NoError(t, err)
	require.NotNil(t, report.Distribution)
	assert.Equal(t, int64(1), report.Distribution.None)
	assert.Nil(t, report.SeverityHistogram)
	assert.Zero(t, report.ResultCount)
}
