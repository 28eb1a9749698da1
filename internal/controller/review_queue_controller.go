package controller

import (
	"errors"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewQueueController struct {
	Service *service.ReviewQueueService
}

func NewReviewQueueController(svc *service.ReviewQueueService) *ReviewQueueController {
	return &ReviewQueueController{Service: svc}
}

// @Summary Pending review queue
// @Tags qa-sweep
// @Produce json
// @Security ApiKeyAuth
// @Param priority query string false "risk level filter" Enums(high, medium, low)
// @Success 200 {object} util.Response
// @Router /qa-sweep/review-queue [get]
func (c *ReviewQueueController) List(ctx *gin.Context) {
	items, err := c.Service.List(ctx.Query("priority"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"items": items})
}

// @Summary Approve a proposed patch
// @Tags qa-sweep
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "review item id"
// @Success 200 {object} util.Response
// @Router /qa-sweep/review-queue/{id}/approve [post]
func (c *ReviewQueueController) Approve(ctx *gin.Context) {
	err := c.Service.Approve(ctx.Param("id"))
	switch {
	case err == nil:
		util.Success(ctx, gin.H{"success": true})
	case errors.Is(err, util.ErrReviewItemNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrReviewItemResolved):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrMalformedPatch), errors.Is(err, util.ErrUnknownPatchField):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type rejectRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// @Summary Reject a proposed patch
// @Tags qa-sweep
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "review item id"
// @Param body body rejectRequest true "operator notes"
// @Success 200 {object} util.Response
// @Router /qa-sweep/review-queue/{id}/reject [post]
func (c *ReviewQueueController) Reject(ctx *gin.Context) {
	var req rejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Service.Reject(ctx.Param("id"), req.Notes)
	switch {
	case err == nil:
		util.Success(ctx, gin.H{"success": true})
	case errors.Is(err, util.ErrReviewItemNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrReviewItemResolved):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
