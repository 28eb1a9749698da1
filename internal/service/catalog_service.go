package service

import (
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/pkg/logger"

	"go.uber.org/zap"
)

// CatalogService manages the sellable package catalog and seeds its default
// rows. Seeding is idempotent: a non-empty table is left alone.
type CatalogService struct {
	Packages *repository.PackageRepository
}

func NewCatalogService(packages *repository.PackageRepository) *CatalogService {
	return &CatalogService{Packages: packages}
}

func (s *CatalogService) SeedDefaults() error {
	if count, err := s.Packages.CountControlPackages(); err != nil {
		return err
	} else if count == 0 {
		defaults := []model.ControlPackage{
			{Name: "Control individual", Units: 1, PriceCLP: 4990, Active: true},
			{Name: "Pack 5 controles", Units: 5, PriceCLP: 19990, Active: true},
			{Name: "Pack 10 controles", Units: 10, PriceCLP: 34990, Active: true},
		}
		for i := range defaults {
			if err := s.Packages.CreateControlPackage(&defaults[i]); err != nil {
				return err
			}
		}
		logger.Log.Info("seeded control packages", zap.Int("count", len(defaults)))
	}

	if count, err := s.Packages.CountExamPackages(); err != nil {
		return err
	} else if count == 0 {
		defaults := []model.ExamPackage{
			{Name: "Acceso mensual", DurationDays: 30, PriceCLP: 14990, Active: true},
			{Name: "Acceso trimestral", DurationDays: 90, PriceCLP: 34990, Active: true},
			{Name: "Acceso hasta el examen", DurationDays: 365, PriceCLP: 89990, Active: true},
		}
		for i := range defaults {
			if err := s.Packages.CreateExamPackage(&defaults[i]); err != nil {
				return err
			}
		}
		logger.Log.Info("seeded exam packages", zap.Int("count", len(defaults)))
	}

	if count, err := s.Packages.CountMockExamPackages(); err != nil {
		return err
	} else if count == 0 {
		defaults := []model.MockExamPackage{
			{Name: "Ensayo individual", Attempts: 1, PriceCLP: 7990, Active: true},
			{Name: "Pack 3 ensayos", Attempts: 3, PriceCLP: 19990, Active: true},
		}
		for i := range defaults {
			if err := s.Packages.CreateMockExamPackage(&defaults[i]); err != nil {
				return err
			}
		}
		logger.Log.Info("seeded mock exam packages", zap.Int("count", len(defaults)))
	}

	return nil
}

type PackageCatalog struct {
	Control  []model.ControlPackage  `json:"control"`
	Exam     []model.ExamPackage     `json:"exam"`
	MockExam []model.MockExamPackage `json:"mockExam"`
}

func (s *CatalogService) ListAll() (*PackageCatalog, error) {
	control, err := s.Packages.ListControlPackages()
	if err != nil {
		return nil, err
	}
	exam, err := s.Packages.ListExamPackages()
	if err != nil {
		return nil, err
	}
	mock, err := s.Packages.ListMockExamPackages()
	if err != nil {
		return nil, err
	}
	return &PackageCatalog{Control: control, Exam: exam, MockExam: mock}, nil
}

func (s *CatalogService) CreateControlPackage(p *model.ControlPackage) error {
	return s.Packages.CreateControlPackage(p)
}

func (s *CatalogService) CreateExamPackage(p *model.ExamPackage) error {
	return s.Packages.CreateExamPackage(p)
}

func (s *CatalogService) CreateMockExamPackage(p *model.MockExamPackage) error {
	return s.Packages.CreateMockExamPackage(p)
}
