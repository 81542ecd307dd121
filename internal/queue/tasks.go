package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkpost/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskThumbnailCleanup 缩略图清理任务
	TaskThumbnailCleanup = constants.TaskThumbnailCleanup
)

// ThumbnailCleanupPayload 缩略图清理任务载荷
type ThumbnailCleanupPayload struct {
	Path   string `json:"path"`
	PostID uint   `json:"post_id"`
	Reason string `json:"reason"` // replaced / deleted
}

// NewThumbnailCleanupTask 创建缩略图清理任务
func NewThumbnailCleanupTask(payload ThumbnailCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskThumbnailCleanup, body), nil
}

// ParseThumbnailCleanupPayload 解析缩略图清理任务载荷
func ParseThumbnailCleanupPayload(task *asynq.Task) (ThumbnailCleanupPayload, error) {
	var payload ThumbnailCleanupPayload
	if task == nil {
		return payload, fmt.Errorf("empty task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	payload.Path = strings.TrimSpace(payload.Path)
	if payload.Path == "" {
		return payload, fmt.Errorf("thumbnail path is empty")
	}
	return payload, nil
}
