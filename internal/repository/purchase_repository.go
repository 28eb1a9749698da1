package repository

import (
	"eunacom_backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Create(p *model.ControlPurchase) error {
	return r.DB.Create(p).Error
}

func (r *PurchaseRepository) FindByID(id uint) (*model.ControlPurchase, error) {
	var p model.ControlPurchase
	if err := r.DB.Preload("User").Preload("Package").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) ListWithRelations(page, limit int) ([]model.ControlPurchase, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ControlPurchase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ps []model.ControlPurchase
	err := r.DB.Preload("User").Preload("Package").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ps).Error
	return ps, total, err
}

func (r *PurchaseRepository) FindActiveByUserAndPackage(userID, packageID uint) (*model.ControlPurchase, error) {
	var p model.ControlPurchase
	err := r.DB.
		Where("user_id = ? AND control_package_id = ? AND status = ?", userID, packageID, model.PurchaseActive).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) Update(p *model.ControlPurchase) error {
	return r.DB.Save(p).Error
}

func (r *PurchaseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ControlPurchase{}, id).Error
}
