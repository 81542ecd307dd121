package admin

import (
	"strings"

	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPosts 文章列表（全部状态）
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c, h.Config.Blog.PageSize)
	filter := service.AdminPostFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		CategoryID: handlershared.ParseOptionalUintQuery(c, "category_id"),
		Search:     strings.TrimSpace(c.Query("search")),
	}

	posts, total, err := h.PostService.ListAdmin(filter)
	if err != nil {
		respondServiceError(c, err, "error.post_not_found", "error.post_fetch_failed")
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, pageSize, total))
}

// GetPost 文章详情
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	post, err := h.PostService.Get(id)
	if err != nil {
		respondServiceError(c, err, "error.post_not_found", "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章，当前用户为默认作者
func (h *Handler) CreatePost(c *gin.Context) {
	actorID, ok := handlershared.GetUserID(c)
	if !ok {
		return
	}
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Create(req, actorID)
	if err != nil {
		respondServiceError(c, err, "error.post_not_found", "error.save_failed")
		return
	}
	response.Success(c, post)
}

// UpdatePost 更新文章，当前用户记为最后更新人
func (h *Handler) UpdatePost(c *gin.Context) {
	actorID, ok := handlershared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Update(id, req, actorID)
	if err != nil {
		respondServiceError(c, err, "error.post_not_found", "error.save_failed")
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PostService.Delete(id); err != nil {
		respondServiceError(c, err, "error.post_not_found", "error.delete_failed")
		return
	}
	response.Success(c, nil)
}
