package controller

import (
	"eunacom_backend/internal/model"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PackageController struct {
	Catalog *service.CatalogService
}

func NewPackageController(catalog *service.CatalogService) *PackageController {
	return &PackageController{Catalog: catalog}
}

// @Summary Sellable package catalog
// @Tags packages
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /packages [get]
func (c *PackageController) List(ctx *gin.Context) {
	catalog, err := c.Catalog.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, catalog)
}

type createPackageRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=control exam mock_exam"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	// Units doubles as attempts for mock exam packages and is ignored for
	// exam (duration) packages.
	Units        int `json:"units"`
	DurationDays int `json:"durationDays"`
	PriceCLP     int `json:"priceClp" binding:"required,min=0"`
}

// @Summary Create a package
// @Tags packages
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body createPackageRequest true "package"
// @Success 201 {object} util.Response
// @Router /packages [post]
func (c *PackageController) Create(ctx *gin.Context) {
	var req createPackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	switch req.Kind {
	case "control":
		p := &model.ControlPackage{Name: req.Name, Description: req.Description, Units: req.Units, PriceCLP: req.PriceCLP, Active: true}
		if err := c.Catalog.CreateControlPackage(p); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Created(ctx, p)
	case "exam":
		p := &model.ExamPackage{Name: req.Name, Description: req.Description, DurationDays: req.DurationDays, PriceCLP: req.PriceCLP, Active: true}
		if err := c.Catalog.CreateExamPackage(p); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Created(ctx, p)
	case "mock_exam":
		p := &model.MockExamPackage{Name: req.Name, Description: req.Description, Attempts: req.Units, PriceCLP: req.PriceCLP, Active: true}
		if err := c.Catalog.CreateMockExamPackage(p); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Created(ctx, p)
	}
}
