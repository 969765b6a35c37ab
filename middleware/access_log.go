package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog writes one structured line per handled request.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery

		ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ctx.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", ctx.Request.UserAgent()),
		}
		if uid, ok := ctx.Get(ContextUserIDKey); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if len(ctx.Errors) > 0 {
			log.Error(ctx.Errors.String(), fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// Recovery logs panics through zap and answers 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", ctx.Request.URL.Path),
				)
				ctx.AbortWithStatus(500)
			}
		}()
		ctx.Next()
	}
}
