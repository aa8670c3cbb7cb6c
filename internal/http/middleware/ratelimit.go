package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

var rlMu sync.Mutex
var clients = make(map[string]*clientInfo)

// localAllow is the in-process fixed-window fallback used when Redis is not
// configured. Single-instance only; a multi-replica deployment needs Redis.
func localAllow(ident string, maxRequests int, window time.Duration) bool {
	rlMu.Lock()
	defer rlMu.Unlock()

	ci, ok := clients[ident]
	now := time.Now()
	if !ok || now.Sub(ci.last) > window {
		clients[ident] = &clientInfo{last: now, count: 1}
		return true
	}

	ci.count++
	return ci.count <= maxRequests
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
// using the in-process limiter only.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !localAllow("ip:"+c.ClientIP(), maxRequests, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
