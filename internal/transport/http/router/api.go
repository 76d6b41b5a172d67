package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trally-server/internal/core/server"
	mdw "trally-server/internal/transport/http/middleware"
)

// NewAPIEngine 会员端：/api/v1 + /metrics + 静态站点（NoRoute）
func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	cfg := d.Config
	r := baseEngine(l, "api", cfg.App.HTTP.CORSOrigins)
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api/v1")
	modules(newEnv(l, d, "")).MountAPI(api)

	r.NoRoute(server.Static(cfg.Static.Root, cfg.Static.MaxAgeSec))
	return r
}
