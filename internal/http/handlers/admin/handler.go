package admin

import (
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 后台接口，需经 JWT 与 RBAC 中间件
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, notFoundKey, fallbackKey string) {
	handlershared.RespondServiceError(c, err, notFoundKey, fallbackKey)
}
