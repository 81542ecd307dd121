package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/inkpost/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "ink"

type store struct {
	client *redis.Client
	prefix string
}

// 当前生效的连接，nil 表示缓存关闭
var current atomic.Pointer[store]

// InitRedis 按配置连接 Redis，未启用时保持关闭
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		Disable()
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	UseClient(redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.Prefix)
	return nil
}

// UseClient 直接注入客户端（测试或复用已有连接）
func UseClient(client *redis.Client, prefix string) {
	if client == nil {
		Disable()
		return
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	current.Store(&store{client: client, prefix: prefix})
}

// Disable 关闭缓存（不关闭底层连接）
func Disable() {
	current.Store(nil)
}

// Enabled 缓存是否可用
func Enabled() bool {
	return current.Load() != nil
}

// Client 当前 Redis 客户端，关闭时为 nil
func Client() *redis.Client {
	if s := current.Load(); s != nil {
		return s.client
	}
	return nil
}

// Ping 检查连接，关闭时直接返回 nil
func Ping(ctx context.Context) error {
	if s := current.Load(); s != nil {
		return s.client.Ping(ctx).Err()
	}
	return nil
}

// GetJSON 读取 JSON 缓存，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	s := current.Load()
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s := current.Load()
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	if s := current.Load(); s != nil {
		return s.client.Del(ctx, s.key(key)).Err()
	}
	return nil
}

// BuildKey 拼接带前缀的缓存键
func BuildKey(key string) string {
	s := current.Load()
	if s == nil {
		return (&store{prefix: defaultPrefix}).key(key)
	}
	return s.key(key)
}

func (s *store) key(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.prefix
	}
	return s.prefix + ":" + key
}
