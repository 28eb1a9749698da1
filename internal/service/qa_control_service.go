package service

import (
	"context"
	"encoding/json"
	"errors"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/util"
	"eunacom_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const qaDashboardCacheKey = "qa:dashboard"

// QAControlService backs the admin QA control panel: variation listing and
// bulk hiding, sweep run inspection, and the cached dashboard aggregate.
// QA settings are read from the shared config on every call, so a reloaded
// config takes effect without a restart.
type QAControlService struct {
	Variations *repository.VariationRepository
	Sweeps     *repository.SweepRepository
	Queue      *repository.ReviewQueueRepository
	Redis      *redis.Client
	Config     *config.Config
}

func NewQAControlService(variations *repository.VariationRepository, sweeps *repository.SweepRepository, queue *repository.ReviewQueueRepository, rdb *redis.Client, cfg *config.Config) *QAControlService {
	return &QAControlService{
		Variations: variations,
		Sweeps:     sweeps,
		Queue:      queue,
		Redis:      rdb,
		Config:     cfg,
	}
}

func (s *QAControlService) cacheTTL() time.Duration {
	return time.Duration(s.Config.QA.DashboardCacheSeconds) * time.Second
}

func (s *QAControlService) ListVariations(f repository.VariationFilter) ([]model.QuestionVariation, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 20
	}
	return s.Variations.ListVisible(f)
}

// DeleteVariations hides a batch of variations from students. The rows are
// soft-deleted, so QA history referencing them stays intact.
func (s *QAControlService) DeleteVariations(ids []string) (int64, error) {
	hidden, err := s.Variations.HideByIDs(ids)
	if err != nil {
		return 0, err
	}
	if hidden > 0 {
		s.invalidateDashboard()
		logger.Log.Info("variations hidden", zap.Int64("count", hidden))
	}
	return hidden, nil
}

func (s *QAControlService) ListRuns(page, limit int) ([]model.QASweepRun, int64, error) {
	return s.Sweeps.ListRuns(page, limit)
}

type RunDetail struct {
	Run    *model.QASweepRun     `json:"run"`
	Stats  *repository.RunStats  `json:"stats"`
	Config *model.SweepRunConfig `json:"config"`
}

func (s *QAControlService) GetRunDetail(id string) (*RunDetail, error) {
	run, err := s.Sweeps.FindRunByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRunNotFound
		}
		return nil, err
	}

	stats, err := s.Sweeps.AggregateRunStats(id)
	if err != nil {
		return nil, err
	}

	cfg, err := run.ParseConfig()
	if err != nil {
		// A run with an unreadable config payload is still inspectable.
		logger.Log.Warn("unparseable run config", zap.String("run", id), zap.Error(err))
		cfg = &model.SweepRunConfig{}
	}

	return &RunDetail{Run: run, Stats: stats, Config: cfg}, nil
}

// Dashboard is the aggregate the QA control panel polls.
type Dashboard struct {
	Distribution *repository.ConfidenceDistribution `json:"distribution"`
	QueueDepth   int64                              `json:"queueDepth"`
	GeneratedAt  time.Time                          `json:"generatedAt"`
}

// GetDashboard serves the aggregate from redis when fresh, recomputing it
// otherwise. Backfill and review decisions invalidate the key.
func (s *QAControlService) GetDashboard() (*Dashboard, error) {
	ctx := context.Background()

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, qaDashboardCacheKey).Bytes()
		if err == nil {
			var d Dashboard
			if json.Unmarshal(cached, &d) == nil {
				return &d, nil
			}
		}
	}

	dist, err := s.Variations.CountConfidenceDistribution()
	if err != nil {
		return nil, err
	}
	depth, err := s.Queue.CountPending()
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Distribution: dist,
		QueueDepth:   depth,
		GeneratedAt:  time.Now(),
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(d); err == nil {
			if err := s.Redis.Set(ctx, qaDashboardCacheKey, payload, s.cacheTTL()).Err(); err != nil {
				logger.Log.Warn("failed to cache dashboard", zap.Error(err))
			}
		}
	}
	return d, nil
}

func (s *QAControlService) invalidateDashboard() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), qaDashboardCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
