package repository

import (
	"eunacom_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SweepRepository struct {
	DB *gorm.DB
}

func NewSweepRepository(db *gorm.DB) *SweepRepository {
	return &SweepRepository{DB: db}
}

func (r *SweepRepository) CreateRun(run *model.QASweepRun) error {
	return r.DB.Create(run).Error
}

func (r *SweepRepository) FindRunByID(id string) (*model.QASweepRun, error) {
	var run model.QASweepRun
	if err := r.DB.Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *SweepRepository) ListRuns(page, limit int) ([]model.QASweepRun, int64, error) {
	var total int64
	if err := r.DB.Model(&model.QASweepRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []model.QASweepRun
	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&runs).Error
	return runs, total, err
}

func (r *SweepRepository) CreateResult(res *model.QASweepResult) error {
	return r.DB.Create(res).Error
}

// FindLatestResultForVariation returns the most recent diagnostic result for
// a variation, or gorm.ErrRecordNotFound when the variation was never
// diagnosed.
func (r *SweepRepository) FindLatestResultForVariation(variationID string) (*model.QASweepResult, error) {
	var res model.QASweepResult
	err := r.DB.Where("variation_id = ?", variationID).
		Order("created_at DESC").
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RunStats aggregates the results of one run.
type RunStats struct {
	ResultCount  int64   `json:"resultCount"`
	TokensIn     int64   `json:"tokensIn"`
	TokensOut    int64   `json:"tokensOut"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}

func (r *SweepRepository) AggregateRunStats(runID string) (*RunStats, error) {
	var stats RunStats
	err := r.DB.Model(&model.QASweepResult{}).
		Select("COUNT(*) AS result_count, COALESCE(SUM(tokens_in),0) AS tokens_in, COALESCE(SUM(tokens_out),0) AS tokens_out, COALESCE(AVG(latency_ms),0) AS avg_latency_ms").
		Where("run_id = ?", runID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FindStuckRuns returns RUNNING runs with no result newer than the cutoff.
// A run that started after the cutoff is not stuck yet, just slow.
func (r *SweepRepository) FindStuckRuns(cutoff time.Time) ([]model.QASweepRun, error) {
	var runs []model.QASweepRun
	err := r.DB.
		Where("status = ?", model.SweepRunRunning).
		Where("started_at IS NOT NULL AND started_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM qa_sweep2_results r WHERE r.run_id = qa_sweep2_runs.id AND r.deleted_at IS NULL AND r.created_at >= ?)", cutoff).
		Find(&runs).Error
	return runs, err
}

func (r *SweepRepository) MarkRunFailed(id string) error {
	now := time.Now()
	return r.DB.Model(&model.QASweepRun{}).
		Where("id = ? AND status = ?", id, model.SweepRunRunning).
		Updates(map[string]interface{}{
			"status":      model.SweepRunFailed,
			"finished_at": now,
		}).Error
}

// ListAllResults feeds the severity histogram. Stored diagnosis payloads are
// JSON, so the bucket is extracted in Go rather than with vendor-specific
// JSON SQL.
func (r *SweepRepository) ListAllResults() ([]model.QASweepResult, error) {
	var results []model.QASweepResult
	err := r.DB.Find(&results).Error
	return results, err
}
