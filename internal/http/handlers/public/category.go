package public

import (
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCategories 分类树
func (h *Handler) GetCategories(c *gin.Context) {
	tree, err := h.categories.PublicTree(c.Request.Context())
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, tree)
}
