package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trally-server/internal/core/auth"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/ez"
	resp "trally-server/internal/transport/http/response"
)

// StatusChecker 令牌有效之外，还要确认账号仍处于批准状态
type StatusChecker interface {
	Active(ctx context.Context, id string) (*service.Identity, error)
}

// AuthJWT requireRole 为空表示任何已批准用户；角色以当前库中状态为准，不信任令牌里的旧角色
func AuthJWT(j *auth.JWTer, checker StatusChecker, requireRole string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}

		id, err := checker.Active(c.Request.Context(), claims.UID)
		if err != nil {
			l.Error("user status lookup failed", zap.String("uid", claims.UID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, ""))
			return
		}
		if id == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "account is not active"))
			return
		}
		if requireRole != "" && id.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}

		c.Set(ez.KeyUserID, id.ID)
		c.Set(ez.KeyRole, id.Role)
		c.Set("claims", claims)
		c.Next()
	}
}
