package controller

import (
	"errors"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Entitlements *service.EntitlementService
}

func NewPaymentController(entitlements *service.EntitlementService) *PaymentController {
	return &PaymentController{Entitlements: entitlements}
}

// @Summary Purchases with user and package
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /payments [get]
func (c *PaymentController) List(ctx *gin.Context) {
	page, limit := util.ParsePageParams(ctx.Query("page"), ctx.Query("limit"))

	purchases, total, err := c.Entitlements.ListPurchases(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  purchases,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

type grantRequest struct {
	Email     string `json:"email" binding:"required,email"`
	PackageID uint   `json:"packageId" binding:"required"`
}

// @Summary Grant a control purchase
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body grantRequest true "grant"
// @Success 201 {object} util.Response
// @Router /payments [post]
func (c *PaymentController) Grant(ctx *gin.Context) {
	var req grantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	purchase, err := c.Entitlements.Grant(req.Email, req.PackageID)
	switch {
	case err == nil:
		util.Created(ctx, purchase)
	case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrPackageNotFound):
		util.Error(ctx, 404, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type adjustUnitsRequest struct {
	TotalUnits int `json:"totalUnits" binding:"min=0"`
	UsedUnits  int `json:"usedUnits" binding:"min=0"`
}

// @Summary Adjust purchase units
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "purchase id"
// @Param body body adjustUnitsRequest true "units"
// @Success 200 {object} util.Response
// @Router /payments/{id} [put]
func (c *PaymentController) Update(ctx *gin.Context) {
	var req adjustUnitsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	purchase, err := c.Entitlements.AdjustUnits(util.MustParseUint(ctx.Param("id")), req.TotalUnits, req.UsedUnits)
	switch {
	case err == nil:
		util.Success(ctx, purchase)
	case errors.Is(err, util.ErrPurchaseNotFound):
		util.NotFound(ctx)
	default:
		util.BadRequest(ctx, err.Error())
	}
}

// @Summary Delete a purchase
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "purchase id"
// @Success 200 {object} util.Response
// @Router /payments/{id} [delete]
func (c *PaymentController) Delete(ctx *gin.Context) {
	err := c.Entitlements.DeletePurchase(util.MustParseUint(ctx.Param("id")))
	switch {
	case err == nil:
		util.Success(ctx, gin.H{"success": true})
	case errors.Is(err, util.ErrPurchaseNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
