package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/inkpost/internal/constants"

	"github.com/redis/go-redis/v9"
)

// PublishedVersion 当前公开内容版本号，未初始化时为 0
func PublishedVersion(ctx context.Context) (int64, error) {
	client := Client()
	if client == nil {
		return 0, nil
	}
	val, err := client.Get(ctx, BuildKey(constants.CacheKeyPublishedVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// BumpPublishedVersion 递增版本号，使所有旧的公开缓存键失效
func BumpPublishedVersion(ctx context.Context) (int64, error) {
	client := Client()
	if client == nil {
		return 0, nil
	}
	return client.Incr(ctx, BuildKey(constants.CacheKeyPublishedVersion)).Result()
}

// PublishedKey 构建带版本号的公开内容缓存键
func PublishedKey(version int64, parts ...interface{}) string {
	key := fmt.Sprintf("%s:v%d", constants.CacheKeyPublishedPrefix, version)
	for _, part := range parts {
		key += fmt.Sprintf(":%v", part)
	}
	return key
}

// Remember 读取公开缓存，未命中时调用 load 并回写
// 缓存读写失败不影响主流程。
func Remember[T any](ctx context.Context, ttl time.Duration, load func() (T, error), parts ...interface{}) (T, error) {
	if !Enabled() {
		return load()
	}
	version, err := PublishedVersion(ctx)
	if err != nil {
		return load()
	}
	key := PublishedKey(version, parts...)
	var cached T
	if hit, err := GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	_ = SetJSON(ctx, key, value, ttl)
	return value, nil
}
