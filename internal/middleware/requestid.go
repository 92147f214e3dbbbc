package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// HeaderRequestID carries the correlation id on requests and responses.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 64

// RequestID tags each request with a correlation id, keeping a well-formed
// incoming one. The id is stored under httputil.RequestIDKey and on the
// zerolog logger in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set(httputil.RequestIDKey, rid)
		c.Header(HeaderRequestID, rid)

		logger := log.With().Str("request_id", rid).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

// validRequestID accepts up to maxRequestIDLen characters from [A-Za-z0-9-_.:].
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		ch := rid[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.' || ch == ':':
		default:
			return false
		}
	}
	return true
}
