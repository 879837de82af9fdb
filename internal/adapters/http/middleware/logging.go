package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/sales/internal/core/logger"
)

func logHTTPRequest(ctx context.Context, method, path, route string, statusCode int, duration time.Duration, extraAttributes map[string]any) {
	attrs := map[string]any{
		"http.method":      method,
		"http.path":        path,
		"http.route":       route,
		"http.status_code": statusCode,
		"http.duration_ms": duration.Milliseconds(),
	}

	for key, value := range extraAttributes {
		attrs[key] = value
	}

	level := logger.LogLevelInfo
	if statusCode >= 500 {
		level = logger.LogLevelError
	} else if statusCode >= 400 {
		level = logger.LogLevelWarn
	}

	logger.Log(ctx, logger.LogEntry{
		Level:      level,
		Message:    "HTTP Request",
		Attributes: attrs,
		Timestamp:  time.Now(),
	})
}

// LogRequest logs one record per request. Bodies are not logged: order and
// customer payloads carry personal data.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		extraAttributes := map[string]any{
			"http.client_ip": c.ClientIP(),
		}
		if c.Request.ContentLength > 0 {
			extraAttributes["http.request_size"] = c.Request.ContentLength
		}
		if size := c.Writer.Size(); size > 0 {
			extraAttributes["http.response_size"] = size
		}
		if len(c.Errors) > 0 {
			extraAttributes["http.errors"] = c.Errors.String()
		}

		logHTTPRequest(
			c.Request.Context(),
			c.Request.Method,
			c.Request.URL.Path,
			c.FullPath(),
			c.Writer.Status(),
			time.Since(start),
			extraAttributes,
		)
	}
}
