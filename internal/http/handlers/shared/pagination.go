package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// NormalizePagination 规范化分页参数
func NormalizePagination(page, pageSize, defaultSize int) (int, int) {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// PaginationFromQuery 读取 page/page_size 查询参数
func PaginationFromQuery(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return NormalizePagination(page, pageSize, defaultSize)
}
