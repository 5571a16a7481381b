package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ContextIPAddress = "ip_address"
	ContextUserAgent = "user_agent"
)

// RequestLogger records client details in the context and logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()

		// X-Forwarded-For first, for proxies
		ipAddress := c.GetHeader("X-Forwarded-For")
		if ipAddress == "" {
			ipAddress = c.GetHeader("X-Real-IP")
		}
		if ipAddress == "" {
			ipAddress = c.ClientIP()
		}
		if idx := strings.Index(ipAddress, ","); idx != -1 {
			ipAddress = strings.TrimSpace(ipAddress[:idx])
		}
		userAgent := c.GetHeader("User-Agent")

		c.Set(ContextIPAddress, ipAddress)
		c.Set(ContextUserAgent, userAgent)

		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ipAddress),
			zap.String("user_agent", userAgent),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.Stringer("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		log.Log(level, "request", fields...)
	}
}

func GetIPAddress(c *gin.Context) string {
	return c.GetString(ContextIPAddress)
}

func GetUserAgent(c *gin.Context) string {
	return c.GetString(ContextUserAgent)
}
