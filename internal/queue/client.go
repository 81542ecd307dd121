package queue

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"

	"github.com/hibiken/asynq"
)

// MediaQueue 媒体文件相关任务所在队列
const MediaQueue = constants.QueueMedia

const thumbnailCleanupRetries = 3

// Client asynq 客户端，未启用时所有投递为空操作
type Client struct {
	inner *asynq.Client
}

// NewClient 按配置创建客户端，cfg 未启用时返回空客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 是否连接了队列
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueThumbnailCleanup 投递缩略图清理任务
// 同一路径只保留一个待执行任务，重复投递视为成功。
func (c *Client) EnqueueThumbnailCleanup(payload ThumbnailCleanupPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewThumbnailCleanupTask(payload)
	if err != nil {
		return err
	}
	_, err = c.inner.Enqueue(task,
		asynq.Queue(MediaQueue),
		asynq.TaskID(thumbnailTaskID(payload.Path)),
		asynq.ProcessIn(max(delay, 0)),
		asynq.MaxRetry(thumbnailCleanupRetries),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func thumbnailTaskID(path string) string {
	return TaskThumbnailCleanup + ":" + strings.TrimSpace(path)
}

// BuildServerConfig worker 端连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{MediaQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
