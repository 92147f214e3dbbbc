package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

const DefaultRequestTimeout = 30 * time.Second

// Timeout bounds the request context. Handlers stop when their repository
// calls observe the cancelled context.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
