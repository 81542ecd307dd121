package router

import (
	"math"
	"sync"
	"time"

	"github.com/inkpost/internal/cache"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 进程内限流器数量上限，超过后整体重置
const maxLocalLimiters = 10000

type localLimiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func (s *localLimiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[key]
	if !ok {
		if len(s.limiters) >= maxLocalLimiters {
			s.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// LocalRateLimitMiddleware 进程内令牌桶限流，窗口内最多 MaxRequests 次
// 仅在单实例部署或 Redis 未启用时使用。
func LocalRateLimitMiddleware(rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if !rule.enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	window := time.Duration(rule.WindowSeconds) * time.Second
	set := &localLimiterSet{
		limit:    rate.Every(window / time.Duration(rule.MaxRequests)),
		burst:    rule.MaxRequests,
		limiters: make(map[string]*rate.Limiter),
	}

	return func(c *gin.Context) {
		reservation := set.get(resolveRateLimitKey(c, keyFunc)).Reserve()
		delay := reservation.Delay()
		if delay == 0 {
			c.Next()
			return
		}
		reservation.Cancel()
		abortRateLimited(c, rule, int(math.Ceil(delay.Seconds())))
	}
}

// newRateLimiter Redis 可用时使用共享计数，否则退回进程内限流
func newRateLimiter(rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if client := cache.Client(); client != nil {
		return RateLimitMiddleware(client, rule, keyFunc)
	}
	return LocalRateLimitMiddleware(rule, keyFunc)
}
