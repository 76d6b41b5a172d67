package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trally-server/internal/app"
	"trally-server/internal/domain"
	"trally-server/internal/transport/http/ez"
)

// userAdminModule 注册审批 + 会员管理，响应总是重新加载的 {approved, pending}
type userAdminModule struct{ *env }

func (userAdminModule) Priority() int { return 10 }

func (m *userAdminModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin.Group("/users"), m.l)

	ez.RegisterAction(e, ez.Action[struct{}, app.Users]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (app.Users, error) {
			return m.State.Users(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/pending",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			us, err := m.State.Users(c.Request.Context())
			return us.Pending, err
		},
	})

	transitions := map[string]func(ctx context.Context, id string) (app.Users, error){
		"/:id/approve":   m.State.Approve,
		"/:id/reject":    m.State.Reject,
		"/:id/unapprove": m.State.Unapprove,
	}
	for path, fn := range transitions {
		fn := fn
		ez.RegisterAction(e, ez.Action[struct{}, app.Users]{
			Method: http.MethodPost,
			Path:   path,
			Binder: ez.BindNone,
			Auth:   true,
			Roles:  []string{domain.RoleAdmin},
			Handler: func(c *gin.Context, _ *struct{}) (app.Users, error) {
				return fn(c.Request.Context(), c.Param("id"))
			},
		})
	}

	ez.RegisterAction(e, ez.Action[struct{}, app.Users]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (app.Users, error) {
			if ez.UserID(c) == c.Param("id") {
				return app.Users{}, domain.Validation("자기 자신은 삭제할 수 없습니다.")
			}
			return m.State.DeleteUser(c.Request.Context(), c.Param("id"))
		},
	})
}
