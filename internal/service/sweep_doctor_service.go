package service

import (
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// SweepDoctorService diagnoses the sweep pipeline: stuck runs, severity
// spread, token spend. It replaces the pile of one-off check scripts with
// one parameterized report.
type SweepDoctorService struct {
	Sweeps     *repository.SweepRepository
	Variations *repository.VariationRepository
}

func NewSweepDoctorService(sweeps *repository.SweepRepository, variations *repository.VariationRepository) *SweepDoctorService {
	return &SweepDoctorService{Sweeps: sweeps, Variations: variations}
}

// StuckRuns returns RUNNING runs that have produced no result within the
// stale window.
func (s *SweepDoctorService) StuckRuns(staleAfter time.Duration) ([]model.QASweepRun, error) {
	cutoff := time.Now().Add(-staleAfter)
	return s.Sweeps.FindStuckRuns(cutoff)
}

// HealStuckRuns marks every stuck run FAILED so the operator can relaunch
// it. Returns the runs that were transitioned.
func (s *SweepDoctorService) HealStuckRuns(staleAfter time.Duration) ([]model.QASweepRun, error) {
	stuck, err := s.StuckRuns(staleAfter)
	if err != nil {
		return nil, err
	}

	for _, run := range stuck {
		if err := s.Sweeps.MarkRunFailed(run.ID); err != nil {
			return nil, err
		}
		logger.Log.Warn("stuck sweep run marked FAILED",
			zap.String("run", run.ID),
			zap.String("name", run.Name),
		)
	}
	return stuck, nil
}

// SweepReport is the parameterized database report. Sections the caller
// didn't ask for stay nil.
type SweepReport struct {
	Distribution      *repository.ConfidenceDistribution `json:"distribution,omitempty"`
	SeverityHistogram map[string]int                     `json:"severityHistogram,omitempty"`
	TokensIn          int64                              `json:"tokensIn,omitempty"`
	TokensOut         int64                              `json:"tokensOut,omitempty"`
	ResultCount       int                                `json:"resultCount,omitempty"`
}

type SweepReportOptions struct {
	Distribution bool
	Severity     bool
	Tokens       bool
}

func (s *SweepDoctorService) Report(opts SweepReportOptions) (*SweepReport, error) {
	report := &SweepReport{}

	if opts.Distribution {
		dist, err := s.Variations.CountConfidenceDistribution()
		if err != nil {
			return nil, err
		}
		report.Distribution = dist
	}

	if opts.Severity || opts.Tokens {
		results, err := s.Sweeps.ListAllResults()
		if err != nil {
			return nil, err
		}
		report.ResultCount = len(results)

		if opts.Severity {
			report.SeverityHistogram = severityHistogram(results)
		}
		if opts.Tokens {
			for _, r := range results {
				report.TokensIn += int64(r.TokensIn)
				report.TokensOut += int64(r.TokensOut)
			}
		}
	}

	return report, nil
}

// severityHistogram buckets results by severidad_global. Unparseable or
// missing diagnoses land in "unknown".
func severityHistogram(results []model.QASweepResult) map[string]int {
	hist := map[string]int{}
	for _, r := range results {
		diag, err := r.ParseDiagnosis()
		if err != nil || diag.SeveridadGlobal == nil {
			hist["unknown"]++
			continue
		}
		switch *diag.SeveridadGlobal {
		case 0:
			hist["0"]++
		case 1:
			hist["1"]++
		case 2:
			hist["2"]++
		case 3:
			hist["3"]++
		default:
			hist["unknown"]++
		}
	}
	return hist
}
