package admin

import (
	"strings"

	adminconfig "github.com/inkpost/internal/admin"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetEntitySchemas 全部后台实体配置
func (h *Handler) GetEntitySchemas(c *gin.Context) {
	response.Success(c, adminconfig.Entities())
}

// GetEntitySchema 单个实体的表单与列表配置
func (h *Handler) GetEntitySchema(c *gin.Context) {
	entity, ok := adminconfig.Lookup(c.Param("entity"))
	if !ok {
		respondError(c, response.CodeNotFound, "error.entity_not_configured", nil)
		return
	}
	response.Success(c, entity)
}

// SlugifyRequest slug 预填充请求
type SlugifyRequest struct {
	Entity    string `json:"entity" binding:"required"`
	Title     string `json:"title" binding:"required"`
	ExcludeID *uint  `json:"exclude_id"`
}

// Slugify 根据标题给出可用 slug
func (h *Handler) Slugify(c *gin.Context) {
	var req SlugifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	entity, ok := adminconfig.Lookup(req.Entity)
	if !ok {
		respondError(c, response.CodeNotFound, "error.entity_not_configured", nil)
		return
	}
	source, ok := entity.Prepopulated()["slug"]
	if !ok {
		respondError(c, response.CodeNotFound, "error.entity_not_configured", nil)
		return
	}

	suggested, err := h.SlugService.Suggest(entity.Name, strings.TrimSpace(req.Title), req.ExcludeID)
	if err != nil {
		respondServiceError(c, err, "error.not_found", "error.internal")
		return
	}
	response.Success(c, gin.H{
		"slug":   suggested,
		"source": source,
	})
}
