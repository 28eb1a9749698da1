package controller

import (
	"encoding/json"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	Topics *service.TopicService
}

func NewTopicController(topics *service.TopicService) *TopicController {
	return &TopicController{Topics: topics}
}

// @Summary Manual topic upload
// @Description Multipart form: "payload" is the topic JSON, "document" is an optional source file.
// @Tags topics
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response
// @Router /topics/upload [post]
func (c *TopicController) Upload(ctx *gin.Context) {
	payload := ctx.PostForm("payload")
	if payload == "" {
		util.BadRequest(ctx, "missing payload field")
		return
	}

	var req service.TopicUploadRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		util.BadRequest(ctx, "malformed payload: "+err.Error())
		return
	}
	if req.SpecialtyCode == "" || req.TopicCode == "" || req.TopicName == "" || len(req.Questions) == 0 {
		util.BadRequest(ctx, "specialtyCode, topicCode, topicName and at least one question are required")
		return
	}

	var doc io.Reader
	var docName, docContentType string
	var docSize int64
	if fh, err := ctx.FormFile("document"); err == nil {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		allowed := false
		for _, e := range util.AllowedDocumentExtensions {
			if e == ext {
				allowed = true
				break
			}
		}
		if !allowed {
			util.BadRequest(ctx, "unsupported document type "+ext)
			return
		}

		f, err := fh.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer f.Close()

		doc = f
		docName = filepath.Base(fh.Filename)
		docSize = fh.Size
		docContentType = fh.Header.Get("Content-Type")
		if docContentType == "" {
			if ext == ".pdf" {
				docContentType = util.MimePDF
			} else {
				docContentType = util.MimeOctetStream
			}
		}
	}

	result, err := c.Topics.Upload(ctx.Request.Context(), req, doc, docName, docSize, docContentType)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, result)
}

// @Summary Specialties
// @Tags topics
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /topics/specialties [get]
func (c *TopicController) ListSpecialties(ctx *gin.Context) {
	specialties, err := c.Topics.ListSpecialties()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, specialties)
}

// @Summary Topics, optionally by specialty
// @Tags topics
// @Produce json
// @Security ApiKeyAuth
// @Param specialtyId query int false "specialty id"
// @Success 200 {object} util.Response
// @Router /topics [get]
func (c *TopicController) ListTopics(ctx *gin.Context) {
	topics, err := c.Topics.ListTopics(util.MustParseUint(ctx.Query("specialtyId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}
