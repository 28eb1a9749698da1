package repository

import (
	"eunacom_backend/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) FindSpecialtyByCode(code string) (*model.Specialty, error) {
	var s model.Specialty
	if err := r.DB.Where("code = ?", code).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) CreateSpecialty(s *model.Specialty) error {
	return r.DB.Create(s).Error
}

func (r *CatalogRepository) FindTopicByCode(code string) (*model.Topic, error) {
	var t model.Topic
	if err := r.DB.Where("code = ?", code).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepository) CreateTopic(t *model.Topic) error {
	return r.DB.Create(t).Error
}

func (r *CatalogRepository) UpdateTopic(t *model.Topic) error {
	return r.DB.Save(t).Error
}

func (r *CatalogRepository) CreateBaseQuestions(qs []model.BaseQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	return r.DB.Create(&qs).Error
}

func (r *CatalogRepository) CountBaseQuestionsByTopic(topicID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.BaseQuestion{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

func (r *CatalogRepository) ListSpecialties() ([]model.Specialty, error) {
	var ss []model.Specialty
	err := r.DB.Order("name ASC").Find(&ss).Error
	return ss, err
}

func (r *CatalogRepository) ListTopics(specialtyID uint) ([]model.Topic, error) {
	q := r.DB.Order("name ASC")
	if specialtyID != 0 {
		q = q.Where("specialty_id = ?", specialtyID)
	}
	var ts []model.Topic
	err := q.Find(&ts).Error
	return ts, err
}
