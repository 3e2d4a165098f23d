package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripnotes/pkg/utils"
)

func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String(utils.FieldTraceID, c.GetString(utils.TraceIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(utils.FieldDuration, time.Since(startTime)),
			zap.String("ip", c.ClientIP()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		if c.Writer.Status() >= 500 {
			logger.Warn(path, fields...)
			return
		}
		logger.Info(path, fields...)
	}
}
