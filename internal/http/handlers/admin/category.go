package admin

import (
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCategories 分类列表，view=tree 时返回嵌套结构
func (h *Handler) GetCategories(c *gin.Context) {
	if c.Query("view") == "tree" {
		tree, err := h.CategoryService.Tree()
		if err != nil {
			respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
			return
		}
		response.Success(c, tree)
		return
	}

	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 分类详情（含祖先链与子分类）
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.CategoryService.Get(id)
	if err != nil {
		respondServiceError(c, err, "error.category_not_found", "error.category_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(req)
	if err != nil {
		respondServiceError(c, err, "error.category_not_found", "error.save_failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类，parent_id 变化时移动整棵子树
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, "error.category_not_found", "error.save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类及其子树，仍有文章时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondServiceError(c, err, "error.category_not_found", "error.delete_failed")
		return
	}
	response.Success(c, nil)
}
