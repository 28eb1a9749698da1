package repository

import (
	"eunacom_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewQueueRepository struct {
	DB *gorm.DB
}

func NewReviewQueueRepository(db *gorm.DB) *ReviewQueueRepository {
	return &ReviewQueueRepository{DB: db}
}

func (r *ReviewQueueRepository) Create(item *model.ReviewQueueItem) error {
	return r.DB.Create(item).Error
}

func (r *ReviewQueueRepository) FindByID(id string) (*model.ReviewQueueItem, error) {
	var item model.ReviewQueueItem
	if err := r.DB.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListPending returns pending items, optionally filtered by risk level,
// highest risk first within creation order.
func (r *ReviewQueueRepository) ListPending(riskLevel model.RiskLevel) ([]model.ReviewQueueItem, error) {
	q := r.DB.Where("fix_status = ?", model.FixPending)
	if riskLevel != "" {
		q = q.Where("risk_level = ?", riskLevel)
	}

	var items []model.ReviewQueueItem
	err := q.Order("CASE risk_level WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ReviewQueueRepository) CountPending() (int64, error) {
	var count int64
	err := r.DB.Model(&model.ReviewQueueItem{}).
		Where("fix_status = ?", model.FixPending).
		Count(&count).Error
	return count, err
}
