package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 抓取冷却限流 ====================

// ScrapeRateLimiter 抓取端点的按键冷却限流器
// 书签脚本连点会把市场端点打出风控，按 session(退化为 IP) 强制冷却
type ScrapeRateLimiter struct {
	locks sync.Map // key -> *limitEntry
}

type limitEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewScrapeRateLimiter 创建限流器
func NewScrapeRateLimiter() *ScrapeRateLimiter {
	return &ScrapeRateLimiter{}
}

// Allow 检查并占用一次执行窗口
func (r *ScrapeRateLimiter) Allow(key string, interval time.Duration) (bool, time.Duration) {
	actual, _ := r.locks.LoadOrStore(key, &limitEntry{})
	entry := actual.(*limitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return false, interval - elapsed
	}

	entry.lastTime = now
	return true, 0
}

// Cooldown 抓取冷却中间件
func Cooldown(limiter *ScrapeRateLimiter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("id")
		if key == "" {
			key = c.ClientIP()
		}

		allowed, retryAfter := limiter.Allow(key, interval)
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       "请求过于频繁，请稍后再试",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
