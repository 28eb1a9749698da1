package repository

import (
	"eunacom_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type VariationRepository struct {
	DB *gorm.DB
}

func NewVariationRepository(db *gorm.DB) *VariationRepository {
	return &VariationRepository{DB: db}
}

func (r *VariationRepository) Create(v *model.QuestionVariation) error {
	return r.DB.Create(v).Error
}

func (r *VariationRepository) FindByID(id string) (*model.QuestionVariation, error) {
	var v model.QuestionVariation
	if err := r.DB.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindDirectBackfillCandidates returns variations that have at least one
// diagnostic result of their own but no confidence score yet.
func (r *VariationRepository) FindDirectBackfillCandidates() ([]model.QuestionVariation, error) {
	var vs []model.QuestionVariation
	err := r.DB.
		Where("confidence_score IS NULL").
		Where("EXISTS (SELECT 1 FROM qa_sweep2_results r WHERE r.variation_id = question_variations.id AND r.deleted_at IS NULL)").
		Find(&vs).Error
	return vs, err
}

// FindUnscoredCorrections returns variations that are themselves corrections
// (parent_version_id set) and still have no confidence score after the
// direct pass.
func (r *VariationRepository) FindUnscoredCorrections() ([]model.QuestionVariation, error) {
	var vs []model.QuestionVariation
	err := r.DB.
		Where("confidence_score IS NULL").
		Where("parent_version_id IS NOT NULL").
		Find(&vs).Error
	return vs, err
}

// FindLineageFirstVersion locates version 1 of a (baseQuestionId,
// variationNumber) lineage.
func (r *VariationRepository) FindLineageFirstVersion(baseQuestionID uint, variationNumber int) (*model.QuestionVariation, error) {
	var v model.QuestionVariation
	err := r.DB.
		Where("base_question_id = ? AND variation_number = ? AND version = 1", baseQuestionID, variationNumber).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VariationRepository) UpdateScore(id string, score float64, lastQADate time.Time) error {
	return r.DB.Model(&model.QuestionVariation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"confidence_score": score,
			"last_qa_date":     lastQADate,
		}).Error
}

type VariationFilter struct {
	Label     string
	Specialty string
	Topic     string
	Page      int
	Limit     int
}

// ListVisible returns visible variations matching the QA control panel
// filters, newest first. The label filter matches against the latest
// diagnosis payload of each variation.
func (r *VariationRepository) ListVisible(f VariationFilter) ([]model.QuestionVariation, int64, error) {
	q := r.DB.Model(&model.QuestionVariation{}).Where("is_visible = ?", true)

	if f.Specialty != "" {
		q = q.Where("base_question_id IN (SELECT bq.id FROM base_questions bq JOIN specialties s ON s.id = bq.specialty_id WHERE s.code = ?)", f.Specialty)
	}
	if f.Topic != "" {
		q = q.Where("base_question_id IN (SELECT bq.id FROM base_questions bq JOIN topics t ON t.id = bq.topic_id WHERE t.code = ?)", f.Topic)
	}
	if f.Label != "" {
		q = q.Where("EXISTS (SELECT 1 FROM qa_sweep2_results r WHERE r.variation_id = question_variations.id AND r.deleted_at IS NULL AND r.diagnosis LIKE ?)", "%\""+f.Label+"\"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vs []model.QuestionVariation
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&vs).Error
	return vs, total, err
}

// HideByIDs soft-hides a batch of variations: students stop seeing them and
// the rows are soft-deleted. Returns how many rows matched.
func (r *VariationRepository) HideByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.Model(&model.QuestionVariation{}).
		Where("id IN ?", ids).
		Update("is_visible", false)
	if res.Error != nil {
		return 0, res.Error
	}
	if err := r.DB.Where("id IN ?", ids).Delete(&model.QuestionVariation{}).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// ConfidenceDistribution is the four-bucket partition of visible variations.
// Every visible variation falls in exactly one bucket.
type ConfidenceDistribution struct {
	None   int64 `json:"none"`
	Low    int64 `json:"low"`    // < 0.34
	Medium int64 `json:"medium"` // 0.34 – 0.67
	High   int64 `json:"high"`   // >= 0.67
	Total  int64 `json:"total"`
}

func (r *VariationRepository) CountConfidenceDistribution() (*ConfidenceDistribution, error) {
	var d ConfidenceDistribution
	visible := func() *gorm.DB {
		return r.DB.Model(&model.QuestionVariation{}).Where("is_visible = ?", true)
	}

	if err := visible().Where("confidence_score IS NULL").Count(&d.None).Error; err != nil {
		return nil, err
	}
	if err := visible().Where("confidence_score < ?", 0.34).Count(&d.Low).Error; err != nil {
		return nil, err
	}
	if err := visible().Where("confidence_score >= ? AND confidence_score < ?", 0.34, 0.67).Count(&d.Medium).Error; err != nil {
		return nil, err
	}
	if err := visible().Where("confidence_score >= ?", 0.67).Count(&d.High).Error; err != nil {
		return nil, err
	}
	d.Total = d.None + d.Low + d.Medium + d.High
	return &d, nil
}
