package admin

import (
	"path"

	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadThumbnail 上传文章缩略图，返回相对媒体目录的路径
func (h *Handler) UploadThumbnail(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.file_missing", nil)
		return
	}

	relPath, err := h.UploadService.SaveThumbnail(file)
	if err != nil {
		respondServiceError(c, err, "error.not_found", "error.upload_failed")
		return
	}

	response.Success(c, gin.H{
		"path": relPath,
		"url":  path.Join("/media", relPath),
		"size": file.Size,
	})
}
