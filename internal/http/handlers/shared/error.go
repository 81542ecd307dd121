package shared

import (
	"errors"

	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/i18n"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，err 非空时记录日志
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAPIError(c, response.NewAPIError(code, key, err))
}

// RespondAPIError 按消息 key 翻译后输出
func RespondAPIError(c *gin.Context, apiErr *response.APIError) {
	msg := i18n.T(i18n.ResolveLocale(c), apiErr.Key)
	if apiErr.Err != nil {
		RequestLog(c).Errorw("handler_error", "code", apiErr.Code, "key", apiErr.Key, "error", apiErr.Err)
	}
	response.Error(c, apiErr.Code, msg)
}

// RespondErrorWithMsg 直接输出消息（不翻译）
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error", "code", code, "message", msg, "error", err)
	}
	response.Error(c, code, msg)
}

// 业务错误 -> 响应码与消息 key，按顺序匹配
var serviceErrorMappings = []struct {
	target error
	code   int
	key    string
}{
	{service.ErrCategoryInUse, response.CodeConflict, "error.category_in_use"},
	{service.ErrCategoryCycle, response.CodeBadRequest, "error.category_cycle"},
	{service.ErrParentNotFound, response.CodeBadRequest, "error.category_parent_not_found"},
	{service.ErrCategoryNotFound, response.CodeBadRequest, "error.category_not_found"},
	{service.ErrAuthorNotFound, response.CodeBadRequest, "error.author_not_found"},
	{service.ErrInvalidThumbnail, response.CodeBadRequest, "error.thumbnail_invalid"},
	{service.ErrInvalidStatus, response.CodeBadRequest, "error.post_status_invalid"},
	{service.ErrUploadTooLarge, response.CodeTooLarge, "error.upload_too_large"},
	{service.ErrDefaultAuthorProtected, response.CodeConflict, "error.default_author_protected"},
	{service.ErrUsernameExists, response.CodeConflict, "error.username_exists"},
	{service.ErrInvalidCredentials, response.CodeUnauthorized, "error.login_invalid"},
	{service.ErrInvalidPassword, response.CodeBadRequest, "error.password_old_invalid"},
	{service.ErrEntityNotConfigured, response.CodeNotFound, "error.entity_not_configured"},
}

// MapServiceError 业务错误转为 APIError，未识别的错误按 fallbackKey 视为 500
func MapServiceError(err error, notFoundKey, fallbackKey string) *response.APIError {
	if errors.Is(err, service.ErrNotFound) {
		return response.NewAPIError(response.CodeNotFound, notFoundKey, nil)
	}
	for _, mapping := range serviceErrorMappings {
		if errors.Is(err, mapping.target) {
			return response.NewAPIError(mapping.code, mapping.key, nil)
		}
	}
	return response.NewAPIError(response.CodeInternal, fallbackKey, err)
}

// RespondServiceError 输出业务错误；校验错误附带字段明细，密码策略错误直接返回原因
func RespondServiceError(c *gin.Context, err error, notFoundKey, fallbackKey string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		msg := i18n.T(i18n.ResolveLocale(c), "error.validation_failed")
		response.ErrorWithData(c, response.CodeValidation, msg, gin.H{"fields": validationErr.Fields})
		return
	}
	if errors.Is(err, service.ErrWeakPassword) {
		RespondErrorWithMsg(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	RespondAPIError(c, MapServiceError(err, notFoundKey, fallbackKey))
}
