package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trally-server/internal/app"
	"trally-server/internal/core/auth"
	"trally-server/internal/core/config"
	"trally-server/internal/core/server"
	"trally-server/internal/service"
	mdw "trally-server/internal/transport/http/middleware"
)

type Deps struct {
	State     *app.State
	Directory *service.DirectoryService
	JWT       *auth.JWTer
	Config    *config.Config
}

// env 模块共享：依赖 + 日志 + 登录中间件；role 为空表示任何已批准用户
type env struct {
	Deps
	l      *zap.Logger
	role   string
	authed gin.HandlerFunc
}

func newEnv(l *zap.Logger, d Deps, requireRole string) *env {
	return &env{Deps: d, l: l, role: requireRole, authed: mdw.AuthJWT(d.JWT, d.Directory, requireRole, l)}
}

func modules(e *env) *Registry {
	reg := &Registry{}
	reg.Register(
		&authModule{e},
		&scheduleModule{e},
		&topicModule{e},
		&attendanceModule{e},
		&userAdminModule{e},
	)
	return reg
}

// baseEngine 两个服务共用的中间件链
func baseEngine(l *zap.Logger, name string, origins []string) *gin.Engine {
	r := server.NewRouter(l, origins)
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(name),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		server.Compress(),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	return r
}
