package service

import (
	"errors"
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/util"
	"eunacom_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntitlementService grants and repairs control purchases. Used by the
// payment admin panel and by the grant_entitlement maintenance command.
type EntitlementService struct {
	Purchases *repository.PurchaseRepository
	Packages  *repository.PackageRepository
	Users     *repository.UserRepository
}

func NewEntitlementService(purchases *repository.PurchaseRepository, packages *repository.PackageRepository, users *repository.UserRepository) *EntitlementService {
	return &EntitlementService{Purchases: purchases, Packages: packages, Users: users}
}

// Grant creates a control purchase for the user identified by email. When an
// active purchase of the same package exists, its units are topped up
// instead of creating a duplicate row.
func (s *EntitlementService) Grant(email string, packageID uint) (*model.ControlPurchase, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	pkg, err := s.Packages.FindControlPackageByID(packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPackageNotFound
		}
		return nil, err
	}

	existing, err := s.Purchases.FindActiveByUserAndPackage(user.ID, pkg.ID)
	if err == nil {
		existing.TotalUnits += pkg.Units
		if err := s.Purchases.Update(existing); err != nil {
			return nil, err
		}
		logger.Log.Info("entitlement topped up",
			zap.String("email", email),
			zap.Uint("package", pkg.ID),
			zap.Int("totalUnits", existing.TotalUnits),
		)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	purchase := &model.ControlPurchase{
		UserID:           user.ID,
		ControlPackageID: pkg.ID,
		TotalUnits:       pkg.Units,
		Status:           model.PurchaseActive,
	}
	if err := s.Purchases.Create(purchase); err != nil {
		return nil, err
	}

	logger.Log.Info("entitlement granted",
		zap.String("email", email),
		zap.Uint("package", pkg.ID),
		zap.Int("units", pkg.Units),
	)
	return purchase, nil
}

// VerifyOwner checks that a purchase belongs to the user with the given
// email. With fix=true a mismatched purchase is reassigned; otherwise the
// mismatch is reported as an error.
func (s *EntitlementService) VerifyOwner(purchaseID uint, email string, fix bool) (*model.ControlPurchase, error) {
	purchase, err := s.Purchases.FindByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPurchaseNotFound
		}
		return nil, err
	}

	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if purchase.UserID == user.ID {
		return purchase, nil
	}

	if !fix {
		return purchase, fmt.Errorf("%w: purchase %d belongs to user %d, expected %d",
			util.ErrPurchaseOwnerMatch, purchase.ID, purchase.UserID, user.ID)
	}

	logger.Log.Warn("reassigning purchase owner",
		zap.Uint("purchase", purchase.ID),
		zap.Uint("from", purchase.UserID),
		zap.Uint("to", user.ID),
	)
	purchase.UserID = user.ID
	if err := s.Purchases.Update(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// AdjustUnits updates consumed/total units on a purchase; the payments panel
// uses it for manual corrections.
func (s *EntitlementService) AdjustUnits(purchaseID uint, totalUnits, usedUnits int) (*model.ControlPurchase, error) {
	purchase, err := s.Purchases.FindByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPurchaseNotFound
		}
		return nil, err
	}

	if totalUnits < 0 || usedUnits < 0 || usedUnits > totalUnits {
		return nil, fmt.Errorf("invalid units: used %d of %d", usedUnits, totalUnits)
	}

	purchase.TotalUnits = totalUnits
	purchase.UsedUnits = usedUnits
	if usedUnits >= totalUnits {
		purchase.Status = model.PurchaseExhausted
	} else {
		purchase.Status = model.PurchaseActive
	}

	if err := s.Purchases.Update(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *EntitlementService) ListPurchases(page, limit int) ([]model.ControlPurchase, int64, error) {
	return s.Purchases.ListWithRelations(page, limit)
}

func (s *EntitlementService) DeletePurchase(id uint) error {
	if _, err := s.Purchases.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPurchaseNotFound
		}
		return err
	}
	return s.Purchases.Delete(id)
}
