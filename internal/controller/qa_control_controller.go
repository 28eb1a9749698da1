package controller

import (
	"errors"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type QAControlController struct {
	Service     *service.QAControlService
	SweepDoctor *service.SweepDoctorService
	Config      *config.Config
}

func NewQAControlController(svc *service.QAControlService, doctor *service.SweepDoctorService, cfg *config.Config) *QAControlController {
	return &QAControlController{Service: svc, SweepDoctor: doctor, Config: cfg}
}

// @Summary Visible variations, filtered
// @Tags qa-control
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param label query string false "diagnosis label"
// @Param specialty query string false "specialty code"
// @Param topic query string false "topic code"
// @Success 200 {object} util.Response
// @Router /qa-control/variations [get]
func (c *QAControlController) ListVariations(ctx *gin.Context) {
	page, limit := util.ParsePageParams(ctx.Query("page"), ctx.Query("limit"))

	variations, total, err := c.Service.ListVariations(repository.VariationFilter{
		Label:     ctx.Query("label"),
		Specialty: ctx.Query("specialty"),
		Topic:     ctx.Query("topic"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"variations": variations,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

type deleteVariationsRequest struct {
	VariationIDs []string `json:"variationIds" binding:"required,min=1"`
}

// @Summary Hide variations from students
// @Tags qa-control
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body deleteVariationsRequest true "variation ids"
// @Success 200 {object} util.Response
// @Router /qa-control/variations [delete]
func (c *QAControlController) DeleteVariations(ctx *gin.Context) {
	var req deleteVariationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	hidden, err := c.Service.DeleteVariations(req.VariationIDs)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d variations hidden", hidden),
	})
}

// @Summary Sweep runs
// @Tags qa-control
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /qa-control/runs [get]
func (c *QAControlController) ListRuns(ctx *gin.Context) {
	page, limit := util.ParsePageParams(ctx.Query("page"), ctx.Query("limit"))

	runs, total, err := c.Service.ListRuns(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  runs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary Sweep run detail with aggregates
// @Tags qa-control
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "run id"
// @Success 200 {object} util.Response
// @Router /qa-control/runs/{id} [get]
func (c *QAControlController) GetRun(ctx *gin.Context) {
	detail, err := c.Service.GetRunDetail(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrRunNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary QA dashboard aggregate
// @Tags qa-control
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /qa-control/dashboard [get]
func (c *QAControlController) Dashboard(ctx *gin.Context) {
	d, err := c.Service.GetDashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// @Summary Sweep pipeline diagnostics
// @Description Runs stuck in RUNNING past the configured stale window, plus severity and token aggregates.
// @Tags qa-control
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /qa-control/doctor [get]
func (c *QAControlController) Doctor(ctx *gin.Context) {
	staleAfter := time.Duration(c.Config.QA.StuckRunMinutes) * time.Minute

	stuck, err := c.SweepDoctor.StuckRuns(staleAfter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	report, err := c.SweepDoctor.Report(service.SweepReportOptions{Severity: true, Tokens: true})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"stuckRuns":         stuck,
		"staleAfterMinutes": c.Config.QA.StuckRunMinutes,
		"report":            report,
	})
}
