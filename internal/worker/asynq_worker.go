package worker

import (
	"context"
	"fmt"

	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/queue"

	"github.com/hibiken/asynq"
)

// ThumbnailRemover 删除缩略图文件
type ThumbnailRemover interface {
	RemoveThumbnail(relPath string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	Thumbnails ThumbnailRemover
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{Thumbnails: c.UploadService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskThumbnailCleanup, c.handleThumbnailCleanup)
}

func (c *Consumer) handleThumbnailCleanup(_ context.Context, task *asynq.Task) error {
	payload, err := queue.ParseThumbnailCleanupPayload(task)
	if err != nil {
		// 载荷损坏重试无意义
		logger.Warnw("worker_thumbnail_cleanup_invalid_payload", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.Thumbnails == nil {
		logger.Warnw("worker_thumbnail_cleanup_skip_remover_nil", "post_id", payload.PostID, "path", payload.Path)
		return nil
	}
	if err := c.Thumbnails.RemoveThumbnail(payload.Path); err != nil {
		logger.Warnw("worker_thumbnail_cleanup_failed", "post_id", payload.PostID, "path", payload.Path, "error", err)
		return err
	}
	logger.Infow("worker_thumbnail_cleaned", "post_id", payload.PostID, "path", payload.Path, "reason", payload.Reason)
	return nil
}
