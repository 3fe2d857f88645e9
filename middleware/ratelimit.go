package middleware

import (
	"sync"
	"time"

	"expensetracker/apperr"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit 登录、注册接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次尝试，超过则返回 429
// 过期记录在请求路径上顺带清理，不启动后台协程
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		store     = make(map[string][]time.Time)
		lastSweep = time.Now()
	)

	prune := func(ts []time.Time, cutoff time.Time) []time.Time {
		kept := ts[:0]
		for _, t := range ts {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		return kept
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		if now.Sub(lastSweep) > window {
			for k, ts := range store {
				if ts = prune(ts, cutoff); len(ts) == 0 {
					delete(store, k)
				} else {
					store[k] = ts
				}
			}
			lastSweep = now
		}

		ts := prune(store[ip], cutoff)
		if len(ts) >= maxAttempts {
			store[ip] = ts
			mu.Unlock()
			err := apperr.New(apperr.KindRateLimited, "登录尝试过于频繁，请稍后再试")
			c.AbortWithStatusJSON(apperr.HTTPStatus(err.Kind), apperr.ResponseOf(err, err.Message))
			return
		}
		store[ip] = append(ts, now)
		mu.Unlock()

		c.Next()
	}
}
