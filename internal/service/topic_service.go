package service

import (
	"context"
	"errors"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/pkg/logger"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicService handles the manual topic upload panel: an operator submits a
// topic with its question batch, optionally attaching the source document
// the questions were authored from.
type TopicService struct {
	Catalog *repository.CatalogRepository
	Storage *StorageService
}

func NewTopicService(catalog *repository.CatalogRepository, storage *StorageService) *TopicService {
	return &TopicService{Catalog: catalog, Storage: storage}
}

type UploadQuestion struct {
	Stem          string `json:"stem" binding:"required"`
	OptionA       string `json:"optionA" binding:"required"`
	OptionB       string `json:"optionB" binding:"required"`
	OptionC       string `json:"optionC" binding:"required"`
	OptionD       string `json:"optionD"`
	OptionE       string `json:"optionE"`
	CorrectAnswer string `json:"correctAnswer" binding:"required"`
	Explanation   string `json:"explanation"`
}

type TopicUploadRequest struct {
	SpecialtyCode string           `json:"specialtyCode" binding:"required"`
	SpecialtyName string           `json:"specialtyName"`
	TopicCode     string           `json:"topicCode" binding:"required"`
	TopicName     string           `json:"topicName" binding:"required"`
	Questions     []UploadQuestion `json:"questions" binding:"required,min=1"`
}

type TopicUploadResult struct {
	TopicID          uint   `json:"topicId"`
	QuestionsCreated int    `json:"questionsCreated"`
	SourceDocument   string `json:"sourceDocument,omitempty"`
}

// Upload validates and persists the batch. Specialty and topic rows are
// created on first use; the document, when present, is stored before any
// rows are written so a storage failure leaves the catalog untouched.
func (s *TopicService) Upload(ctx context.Context, req TopicUploadRequest, doc io.Reader, docName string, docSize int64, docContentType string) (*TopicUploadResult, error) {
	for i, q := range req.Questions {
		answer := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		if len(answer) != 1 || answer[0] < 'A' || answer[0] > 'E' {
			return nil, fmt.Errorf("question %d: correct answer must be A-E, got %q", i+1, q.CorrectAnswer)
		}
		req.Questions[i].CorrectAnswer = answer
	}

	docKey := ""
	if doc != nil {
		key := fmt.Sprintf("topics/%s/%s", req.TopicCode, docName)
		url, err := s.Storage.Provider.Upload(ctx, key, doc, docSize, docContentType)
		if err != nil {
			return nil, fmt.Errorf("store source document: %w", err)
		}
		docKey = url
	}

	specialty, err := s.Catalog.FindSpecialtyByCode(req.SpecialtyCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		name := req.SpecialtyName
		if name == "" {
			name = req.SpecialtyCode
		}
		specialty = &model.Specialty{Code: req.SpecialtyCode, Name: name, Enabled: true}
		if err := s.Catalog.CreateSpecialty(specialty); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	topic, err := s.Catalog.FindTopicByCode(req.TopicCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		topic = &model.Topic{
			SpecialtyID:    specialty.ID,
			Code:           req.TopicCode,
			Name:           req.TopicName,
			SourceDocument: docKey,
			Enabled:        true,
		}
		if err := s.Catalog.CreateTopic(topic); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else if docKey != "" {
		topic.SourceDocument = docKey
		if err := s.Catalog.UpdateTopic(topic); err != nil {
			return nil, err
		}
	}

	questions := make([]model.BaseQuestion, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = model.BaseQuestion{
			SpecialtyID:   specialty.ID,
			TopicID:       topic.ID,
			Stem:          q.Stem,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			OptionE:       q.OptionE,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	if err := s.Catalog.CreateBaseQuestions(questions); err != nil {
		return nil, err
	}

	logger.Log.Info("topic batch uploaded",
		zap.String("topic", req.TopicCode),
		zap.Int("questions", len(questions)),
	)
	return &TopicUploadResult{
		TopicID:          topic.ID,
		QuestionsCreated: len(questions),
		SourceDocument:   docKey,
	}, nil
}

func (s *TopicService) ListSpecialties() ([]model.Specialty, error) {
	return s.Catalog.ListSpecialties()
}

func (s *TopicService) ListTopics(specialtyID uint) ([]model.Topic, error) {
	return s.Catalog.ListTopics(specialtyID)
}
