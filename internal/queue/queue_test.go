package queue

import (
	"testing"
	"time"

	"github.com/inkpost/internal/config"

	"github.com/hibiken/asynq"
)

func TestThumbnailCleanupTaskRoundTrip(t *testing.T) {
	task, err := NewThumbnailCleanupTask(ThumbnailCleanupPayload{Path: " images/thumbnails/2024/01/02/a.png ", PostID: 3, Reason: "replaced"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskThumbnailCleanup {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseThumbnailCleanupPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Path != "images/thumbnails/2024/01/02/a.png" || payload.PostID != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseThumbnailCleanupPayloadRejectsEmptyPath(t *testing.T) {
	if _, err := ParseThumbnailCleanupPayload(asynq.NewTask(TaskThumbnailCleanup, []byte(`{"path":"  "}`))); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := ParseThumbnailCleanupPayload(nil); err == nil {
		t.Fatalf("expected error for nil task")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client reports enabled")
	}
	if err := client.EnqueueThumbnailCleanup(ThumbnailCleanupPayload{Path: "x.png"}, time.Minute); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	var nilClient *Client
	if nilClient.Enabled() || nilClient.Close() != nil {
		t.Fatalf("nil client must be safe")
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[MediaQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestThumbnailTaskIDIsStablePerPath(t *testing.T) {
	a := thumbnailTaskID(" images/thumbnails/a.png")
	b := thumbnailTaskID("images/thumbnails/a.png ")
	if a != b || a != TaskThumbnailCleanup+":images/thumbnails/a.png" {
		t.Fatalf("task ids should match for the same path: %s vs %s", a, b)
	}
}

func TestBuildServerConfigUsesConfiguredQueues(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Concurrency: 3, Queues: map[string]int{"media": 5, "default": 1}})
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("default addr expected, got %s", opt.Addr)
	}
	if cfg.Concurrency != 3 || cfg.Queues["media"] != 5 {
		t.Fatalf("configured values should win: %+v", cfg)
	}
}
