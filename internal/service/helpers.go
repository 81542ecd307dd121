package service

import (
	"context"
	"errors"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/logger"

	"gorm.io/gorm"
)

// withSlugRetry 唯一索引冲突（并发写入同一 slug）时重新计算并重试一次
func withSlugRetry(save func() error) error {
	err := save()
	if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	logger.Warnw("slug_conflict_retry", "error", err)
	return save()
}

// invalidatePublished 递增公开内容版本号，失败只记录日志
func invalidatePublished(event string, id uint) {
	version, err := cache.BumpPublishedVersion(context.Background())
	if err != nil {
		logger.Warnw("published_cache_bump_failed", "event", event, "id", id, "error", err)
		return
	}
	if cache.Enabled() {
		logger.Debugw("published_cache_bumped", "event", event, "id", id, "version", version)
	}
}
