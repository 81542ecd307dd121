package public

import (
	"strings"

	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPosts 已发布文章列表，category 为分类 slug（含子分类）
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c, h.pageSize)
	category := strings.TrimSpace(c.Query("category"))

	result, err := h.posts.ListPublic(c.Request.Context(), category, page, pageSize)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.category_not_found", "error.post_fetch_failed")
		return
	}
	response.SuccessWithPage(c, result.Items, response.NewPagination(page, pageSize, result.Total))
}

// GetPostBySlug 已发布文章详情
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.posts.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.post_not_found", "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}
