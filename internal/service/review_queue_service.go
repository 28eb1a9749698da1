package service

import (
	"context"
	"errors"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/util"
	"eunacom_backend/pkg/logger"
	"eunacom_backend/pkg/monitoring"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// patchableFields maps patch field names from the diagnostic payload to
// question_variations columns. A patch naming anything else is rejected.
var patchableFields = map[string]string{
	"stem":          "stem",
	"optionA":       "option_a",
	"optionB":       "option_b",
	"optionC":       "option_c",
	"optionD":       "option_d",
	"optionE":       "option_e",
	"correctAnswer": "correct_answer",
	"explanation":   "explanation",
}

// ReviewQueueService lets an operator approve or reject AI-proposed patches.
// Approve mutates exam content visible to students, so patch application and
// the status transition commit together or not at all.
type ReviewQueueService struct {
	Queue *repository.ReviewQueueRepository
	DB    *gorm.DB
	Redis *redis.Client
}

func NewReviewQueueService(queue *repository.ReviewQueueRepository, db *gorm.DB, rdb *redis.Client) *ReviewQueueService {
	return &ReviewQueueService{Queue: queue, DB: db, Redis: rdb}
}

func (s *ReviewQueueService) List(riskLevel string) ([]model.ReviewQueueItem, error) {
	switch model.RiskLevel(riskLevel) {
	case "", model.RiskHigh, model.RiskMedium, model.RiskLow:
	default:
		return nil, fmt.Errorf("invalid priority %q", riskLevel)
	}
	return s.Queue.ListPending(model.RiskLevel(riskLevel))
}

// Approve applies the item's patch to its variation and marks the item
// applied. The status transition is guarded optimistically: only a row still
// pending is moved, so a concurrent second approve is a no-op conflict
// instead of a double-applied patch.
func (s *ReviewQueueService) Approve(itemID string) error {
	item, err := s.Queue.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrReviewItemNotFound
		}
		return err
	}
	if item.FixStatus != model.FixPending {
		return util.ErrReviewItemResolved
	}

	patch, err := item.ParsePatch()
	if err != nil || len(patch) == 0 {
		return util.ErrMalformedPatch
	}

	updates := make(map[string]interface{}, len(patch))
	for _, p := range patch {
		column, ok := patchableFields[p.Field]
		if !ok {
			return fmt.Errorf("%w: %s", util.ErrUnknownPatchField, p.Field)
		}
		updates[column] = p.ProposedValue
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ReviewQueueItem{}).
			Where("id = ? AND fix_status = ?", item.ID, model.FixPending).
			Updates(map[string]interface{}{
				"fix_status":  model.FixApplied,
				"reviewed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrReviewItemResolved
		}

		res = tx.Model(&model.QuestionVariation{}).
			Where("id = ?", item.VariationID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrVariationNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	monitoring.PatchesReviewed.WithLabelValues("approved").Inc()
	s.invalidateDashboard()
	logger.Log.Info("review patch applied",
		zap.String("item", item.ID),
		zap.String("variation", item.VariationID),
		zap.Int("fields", len(updates)),
	)
	return nil
}

// Reject records the operator's notes and closes the item. Content is left
// untouched.
func (s *ReviewQueueService) Reject(itemID, notes string) error {
	item, err := s.Queue.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrReviewItemNotFound
		}
		return err
	}
	if item.FixStatus != model.FixPending {
		return util.ErrReviewItemResolved
	}

	res := s.DB.Model(&model.ReviewQueueItem{}).
		Where("id = ? AND fix_status = ?", item.ID, model.FixPending).
		Updates(map[string]interface{}{
			"fix_status":   model.FixRejected,
			"review_notes": notes,
			"reviewed_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrReviewItemResolved
	}

	monitoring.PatchesReviewed.WithLabelValues("rejected").Inc()
	s.invalidateDashboard()
	return nil
}

func (s *ReviewQueueService) invalidateDashboard() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), qaDashboardCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
