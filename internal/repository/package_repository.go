package repository

import (
	"eunacom_backend/internal/model"

	"gorm.io/gorm"
)

type PackageRepository struct {
	DB *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{DB: db}
}

func (r *PackageRepository) ListControlPackages() ([]model.ControlPackage, error) {
	var ps []model.ControlPackage
	err := r.DB.Order("price_clp ASC").Find(&ps).Error
	return ps, err
}

func (r *PackageRepository) ListExamPackages() ([]model.ExamPackage, error) {
	var ps []model.ExamPackage
	err := r.DB.Order("price_clp ASC").Find(&ps).Error
	return ps, err
}

func (r *PackageRepository) ListMockExamPackages() ([]model.MockExamPackage, error) {
	var ps []model.MockExamPackage
	err := r.DB.Order("price_clp ASC").Find(&ps).Error
	return ps, err
}

func (r *PackageRepository) FindControlPackageByID(id uint) (*model.ControlPackage, error) {
	var p model.ControlPackage
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepository) CreateControlPackage(p *model.ControlPackage) error {
	return r.DB.Create(p).Error
}

func (r *PackageRepository) CreateExamPackage(p *model.ExamPackage) error {
	return r.DB.Create(p).Error
}

func (r *PackageRepository) CreateMockExamPackage(p *model.MockExamPackage) error {
	return r.DB.Create(p).Error
}

func (r *PackageRepository) CountControlPackages() (int64, error) {
	var count int64
	err := r.DB.Model(&model.ControlPackage{}).Count(&count).Error
	return count, err
}

func (r *PackageRepository) CountExamPackages() (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamPackage{}).Count(&count).Error
	return count, err
}

func (r *PackageRepository) CountMockExamPackages() (int64, error) {
	var count int64
	err := r.DB.Model(&model.MockExamPackage{}).Count(&count).Error
	return count, err
}
