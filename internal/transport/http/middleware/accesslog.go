package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trally-server/internal/transport/http/ez"
)

// query 中需要打码的 key（小写比较）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "password_confirm": {}, "pwd": {}, "token": {},
	"authorization": {}, "secret": {}, "access_token": {},
}

func maskQuery(kv map[string][]string) map[string][]string {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// AccessLog 5xx 记 Error，4xx 记 Warn，其余 Info；静态资源路径没有路由模板时记原始 path
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		lvl := zapcore.InfoLevel
		switch {
		case status >= 500:
			lvl = zapcore.ErrorLevel
		case status >= 400:
			lvl = zapcore.WarnLevel
		}
		if ce := l.Check(lvl, "HTTP"); ce != nil {
			ce.Write(
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.ClientIP()),
				zap.String("ua", c.Request.UserAgent()),
				zap.Any("query", maskQuery(c.Request.URL.Query())),
				zap.Int("size", c.Writer.Size()),
				zap.String("uid", c.GetString(ez.KeyUserID)),
			)
		}
	}
}
