package service

import (
	"errors"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/pkg/logger"
	"eunacom_backend/pkg/monitoring"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BackfillService populates confidence_score and last_qa_date on variations
// that were never scored, without re-running AI diagnosis. Safe to re-run:
// already-scored variations are excluded by the null-score predicate, so a
// second pass performs zero updates.
type BackfillService struct {
	Variations *repository.VariationRepository
	Sweeps     *repository.SweepRepository
}

func NewBackfillService(variations *repository.VariationRepository, sweeps *repository.SweepRepository) *BackfillService {
	return &BackfillService{Variations: variations, Sweeps: sweeps}
}

// BackfillReport summarizes one backfill pass.
type BackfillReport struct {
	DirectUpdated    int                                `json:"directUpdated"`
	InheritedUpdated int                                `json:"inheritedUpdated"`
	Skipped          int                                `json:"skipped"`
	Distribution     *repository.ConfidenceDistribution `json:"distribution"`
}

// Run executes the two backfill passes and returns the report. Any single
// write failure aborts the whole procedure; rerunning after a partial
// failure only touches the records that are still unscored.
func (s *BackfillService) Run() (*BackfillReport, error) {
	report := &BackfillReport{}

	if err := s.backfillDirect(report); err != nil {
		return nil, err
	}
	if err := s.backfillInherited(report); err != nil {
		return nil, err
	}

	dist, err := s.Variations.CountConfidenceDistribution()
	if err != nil {
		return nil, fmt.Errorf("distribution report: %w", err)
	}
	report.Distribution = dist

	logger.Log.Info("confidence backfill finished",
		zap.Int("direct", report.DirectUpdated),
		zap.Int("inherited", report.InheritedUpdated),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// backfillDirect covers variations that have diagnostic results of their
// own: the latest result's score and timestamp are copied onto the row.
func (s *BackfillService) backfillDirect(report *BackfillReport) error {
	candidates, err := s.Variations.FindDirectBackfillCandidates()
	if err != nil {
		return fmt.Errorf("direct candidates: %w", err)
	}

	for _, v := range candidates {
		result, err := s.Sweeps.FindLatestResultForVariation(v.ID)
		if err != nil {
			return fmt.Errorf("latest result for %s: %w", v.ID, err)
		}
		if result.ConfidenceScore == nil {
			report.Skipped++
			continue
		}
		if err := s.Variations.UpdateScore(v.ID, *result.ConfidenceScore, result.CreatedAt); err != nil {
			return fmt.Errorf("update %s: %w", v.ID, err)
		}
		report.DirectUpdated++
		monitoring.VariationsBackfilled.WithLabelValues("direct").Inc()
	}
	return nil
}

// backfillInherited covers corrections that were never directly diagnosed.
// The parent version's latest result drives the inherited confidence; when
// the parent has no result either, the lineage's first version is consulted.
// Deeper lineage walks are deliberately not attempted.
func (s *BackfillService) backfillInherited(report *BackfillReport) error {
	corrections, err := s.Variations.FindUnscoredCorrections()
	if err != nil {
		return fmt.Errorf("unscored corrections: %w", err)
	}

	for _, v := range corrections {
		result, err := s.lineageResult(&v)
		if err != nil {
			return err
		}
		if result == nil {
			report.Skipped++
			logger.Log.Debug("no result anywhere in lineage, variation left unscored",
				zap.String("variation", v.ID))
			continue
		}

		diag, err := result.ParseDiagnosis()
		if err != nil {
			return fmt.Errorf("diagnosis of result %s: %w", result.ID, err)
		}

		severity := diag.SeveridadGlobal
		if severity == nil {
			one := 1
			severity = &one
		}
		score := ScoreFromSeverity(severity)

		if err := s.Variations.UpdateScore(v.ID, score, result.CreatedAt); err != nil {
			return fmt.Errorf("update %s: %w", v.ID, err)
		}
		report.InheritedUpdated++
		monitoring.VariationsBackfilled.WithLabelValues("inherited").Inc()
	}
	return nil
}

// lineageResult finds the authoritative result for a correction: the
// parent's latest result first, then the latest result of version 1 of the
// same (baseQuestionId, variationNumber) lineage. Returns nil when the
// lineage has no result at all.
func (s *BackfillService) lineageResult(v *model.QuestionVariation) (*model.QASweepResult, error) {
	if v.ParentVersionID != nil {
		result, err := s.Sweeps.FindLatestResultForVariation(*v.ParentVersionID)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parent result for %s: %w", v.ID, err)
		}
	}

	first, err := s.Variations.FindLineageFirstVersion(v.BaseQuestionID, v.VariationNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lineage v1 for %s: %w", v.ID, err)
	}
	if first.ID == v.ID {
		return nil, nil
	}

	result, err := s.Sweeps.FindLatestResultForVariation(first.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lineage v1 result for %s: %w", v.ID, err)
	}
	return result, nil
}
