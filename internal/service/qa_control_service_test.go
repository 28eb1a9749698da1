package service

import (
	"encoding/json"
	"testing"
	"time"

	"eunacom_backend/internal/config"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQAControlService(t *testing.T) (*QAControlService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewQAControlService(
		repository.NewVariationRepository(db),
		repository.NewSweepRepository(db),
		repository.NewReviewQueueRepository(db),
		nil,
		&config.Config{QA: config.QAConfig{DashboardCacheSeconds: 60}},
	), db
}

func TestDashboardCacheTTLFollowsConfig(t *testing.T) {
	t.Parallel()
	svc, _ := newQAControlService(t)

	assert.Equal(t, time.Minute, svc.cacheTTL())

	svc.Config.QA.DashboardCacheSeconds = 5
	assert.Equal(t, 5*time.Second, svc.cacheTTL())
}

func TestGetRunDetail(t *testing.T) {
	t.Parallel()
	svc, db := newQAControlService(t)

	cfg, err := json.Marshal(model.SweepRunConfig{Specialty: "MED-INT", BaseQuestionFrom: 10, BaseQuestionTo: 50})
	require.NoError(t, err)
	run := &model.QASweepRun{Name: "targeted sweep", Status: model.SweepRunCompleted, Config: cfg}
	require.NoError(t, db.Create(run).Error)
	require.NoError(t, db.Create(&model.QASweepResult{
		RunID: run.ID, VariationID: model.GenerateUUID(),
		TokensIn: 120, TokensOut: 40, LatencyMs: 900,
	}).Error)

	detail, err := svc.GetRunDetail(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, detail.Run.ID)
	assert.Equal(t, int64(1), detail.Stats.ResultCount)
	assert.Equal(t, "MED-INT", detail.Config.Specialty)
	assert.Equal(t, uint(10), detail.Config.BaseQuestionFrom)
}

func TestGetRunDetailNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newQAControlService(t)
	_, err := svc.GetRunDetail(model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrRunNotFound)
}

func TestGetRunDetailToleratesBrokenConfig(t *testing.T) {
	t.Parallel()
	svc, db := newQAControlService(t)

	run := &model.QASweepRun{Name: "old sweep", Status: model.SweepRunFailed, Config: json.RawMessage(`not json`)}
	require.NoError(t, db.Create(run).Error)

	detail, err := svc.GetRunDetail(run.ID)
	require.NoError(t, err)
	assert.Equal(t, &model.SweepRunConfig{}, detail.Config)
}

func TestDashboardWithoutCache(t *testing.T) {
	t.Parallel()
	svc, db := newQAControlService(t)

	createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	createVariation(t, db, &model.QuestionVariation{
		BaseQuestionID: 1, VariationNumber: 2, Version: 1,
		ConfidenceScore: floatp(0.8),
	})
	require.NoError(t, db.Create(&model.ReviewQueueItem{
		ResultID:    model.GenerateUUID(),
		VariationID: model.GenerateUUID(),
		RiskLevel:   model.RiskHigh,
		FixStatus:   model.FixPending,
	}).Error)

	d, err := svc.GetDashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.Distribution.Total)
	assert.Equal(t, int64(1), d.Distribution.None)
	assert.Equal(t, int64(1), d.Distribution.High)
	assert.Equal(t, int64(1), d.QueueDepth)
	assert.WithinDuration(t, time.Now(), d.GeneratedAt, time.Minute)
}

func TestDeleteVariationsHidesAndReportsCount(t *testing.T) {
	t.Parallel()
	svc, db := newQAControlService(t)

	a := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 1, Version: 1})
	b := createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: 2, Version: 1})

	hidden, err := svc.DeleteVariations([]string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hidden)

	_, total, err := svc.ListVariations(repository.VariationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListVariationsNormalizesPaging(t *testing.T) {
	t.Parallel()
	svc, db := newQAControlService(t)

	for i := 0; i < 3; i++ {
		createVariation(t, db, &model.QuestionVariation{BaseQuestionID: 1, VariationNumber: i + 1, Version: 1})
	}

	vs, total, err := svc.ListVariations(repository.VariationFilter{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, vs, 3)
}
