package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"trally-server/internal/domain"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/ez"
	mdw "trally-server/internal/transport/http/middleware"
)

const msgBadCredentials = "invalid credentials or pending approval"

// loginLimiter 登录/注册每 IP 每秒 1 次，突发 10
func loginLimiter() gin.HandlerFunc {
	return mdw.RateLimitPerIP(rate.Every(time.Second), 10, 10*time.Minute)
}

type authModule struct{ *env }

func (authModule) Priority() int { return 10 }

func (m *authModule) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api.Group("/auth", loginLimiter()), m.l)
	mountLogin(public, m.env)

	ez.RegisterAction(public, ez.Action[service.RegisterInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*domain.User, error) {
			return m.State.Register(c.Request.Context(), *in)
		},
	})

	type usernameQ struct {
		Username string `form:"username" validate:"notblank"`
	}
	ez.RegisterAction(public, ez.Action[usernameQ, gin.H]{
		Method: http.MethodGet,
		Path:   "/username",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *usernameQ) (gin.H, error) {
			exists, err := m.Directory.CheckUsernameExists(c.Request.Context(), in.Username)
			if err != nil {
				return nil, err
			}
			return gin.H{"exists": exists}, nil
		},
	})

	authed := ez.New(api.Group("", m.authed), m.l)
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return m.Directory.Find(c.Request.Context(), ez.UserID(c))
		},
	})
}

type loginIn struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// mountLogin 只给已审批用户签发 token；e.role 非空时只允许该角色
func mountLogin(g ez.EZ, e *env) {
	ez.RegisterAction(g, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, err := e.Directory.Authenticate(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			if u == nil {
				return loginOut{}, ez.Unauthorized(msgBadCredentials)
			}
			if e.role != "" && u.Role != e.role {
				return loginOut{}, ez.Forbidden("forbidden")
			}
			tok, err := e.JWT.Issue(u.ID, u.Role)
			if err != nil {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})
}
