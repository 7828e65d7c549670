// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/service"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/llm"
	"github.com/AmitMalivad/social-media-post-generator-tool/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentHandler 负责处理内容生成相关的 API 请求。
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler 创建一个新的 ContentHandler 实例。
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Generate 处理一次内容生成请求。
// 错误按类别映射状态码：校验 400、配置 500、模型 502、落库 500。
func (h *ContentHandler) Generate(c *gin.Context) {
	var req model.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Generate: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid request payload",
			"fields":  validationDetail(err),
		})
		return
	}

	resp, err := h.contentService.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrMissingAPIKey):
			// 配置错误不向调用方暴露细节
			log.Error("Generate: llm api key not configured", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "service configuration error",
			})
		case errors.Is(err, service.ErrGenerationFailed), errors.Is(err, service.ErrMalformedOutput):
			log.Error("Generate: ai generation failed", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"code":    http.StatusBadGateway,
				"message": "AI generation failed",
				"detail":  err.Error(),
			})
		case errors.Is(err, service.ErrSaveResults):
			log.Error("Generate: failed to save generated posts", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "failed to save generated posts",
			})
		default:
			log.Error("Generate: unexpected error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "internal server error",
			})
		}
		return
	}

	log.Infof("Generate: project %d for '%s' generated %d posts", resp.ProjectID, resp.BusinessName, len(resp.GeneratedPosts))
	c.JSON(http.StatusOK, resp)
}

// ListProjects 处理历史项目列表请求。
func (h *ContentHandler) ListProjects(c *gin.Context) {
	projects, err := h.contentService.ListProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to list projects",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    projects,
	})
}

// GetProject 处理单个项目及其全部帖子的查询请求。
func (h *ContentHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid project id",
		})
		return
	}

	resp, err := h.contentService.GetProject(c.Request.Context(), uint(projectID))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "project not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to load project",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    resp,
	})
}

// validationDetail 把绑定错误展开成字段级的说明，便于调用方定位问题。
func validationDetail(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed validation on '" + fe.Tag() + "'"
		}
	}
	return fields
}
