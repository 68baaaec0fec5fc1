package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/receipt-studio/pkg/utils"
	"go.uber.org/zap"
)

// LoggerMiddleware tags each request with an ID and logs one line per
// request.
func LoggerMiddleware(log *zap.SugaredLogger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []interface{}{
			"request", utils.ShortID(requestID),
			"method", c.Request.Method,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
			"path", path,
		}
		if sid := c.GetString(SessionIDKey); sid != "" {
			fields = append(fields, "session", utils.ShortID(sid))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Errorw("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}

		for _, e := range c.Errors {
			log.Errorw("request error", "request", utils.ShortID(requestID), "error", e.Err)
		}
	}
}
