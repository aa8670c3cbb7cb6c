package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TapRateLimit limits tap-style actions per player (not per IP). Requires
// the JWT middleware to have run so "player_id" is in the context.
func TapRateLimit(maxTaps int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerIDVal, exists := c.Get("player_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		playerID, ok := playerIDVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid player"})
			return
		}

		ident := "tap_rl:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)

		if redisClient == nil {
			if !localAllow(ident, maxTaps, window) {
				RLBlocked.WithLabelValues("tap:" + c.FullPath()).Inc()
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "tap rate limit exceeded",
					"retry_after": int(window.Seconds()),
				})
				return
			}
			c.Next()
			return
		}

		ctx := context.Background()
		val, err := redisClient.Incr(ctx, ident).Result()
		if err != nil {
			c.Header("X-TapRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, ident, window)
		}

		c.Header("X-TapRateLimit-Limit", strconv.Itoa(maxTaps))
		remaining := int64(maxTaps) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-TapRateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(maxTaps) {
			RLBlocked.WithLabelValues("tap:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "tap rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("tap:" + c.FullPath()).Inc()
		c.Next()
	}
}
