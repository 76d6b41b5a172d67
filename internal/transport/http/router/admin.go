package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trally-server/internal/domain"
	"trally-server/internal/transport/http/ez"
)

// NewAdminEngine /admin/v1 统一要求 admin 角色，登录接口除外
func NewAdminEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := baseEngine(l, "admin", d.Config.App.Admin.CORSOrigins)

	e := newEnv(l, d, domain.RoleAdmin)
	base := r.Group("/admin/v1")
	mountLogin(ez.New(base.Group("/auth", loginLimiter()), l), e)

	admin := base.Group("", e.authed)
	modules(e).MountAdmin(admin)
	return r
}
