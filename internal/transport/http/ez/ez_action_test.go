package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"trally-server/internal/domain"
	resp "trally-server/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	Name string `json:"name" validate:"notblank"`
	Mark string `json:"mark" validate:"mark"`
}

func call(t *testing.T, r *gin.Engine, method, path, body string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	e := New(r.Group(""), zap.New(core))

	var next error
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			if next != nil {
				return nil, next
			}
			return gin.H{"name": in.Name}, nil
		},
	})

	out := call(t, r, http.MethodPost, "/echo", `{"name":"민구","mark":"O"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, map[string]any{"name": "민구"}, out.Data)

	out = call(t, r, http.MethodPost, "/echo", `{"name":`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = call(t, r, http.MethodPost, "/echo", `{"name":" ","mark":"Z"}`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)
	fields := out.Data.(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "mark")

	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.NotFound("year not found"), resp.CodeNotFound, "year not found"},
		{domain.Forbidden("nope"), resp.CodeForbidden, "nope"},
		{domain.Unauthorized("who"), resp.CodeUnauthorized, "who"},
		{Unauthorized("bad login"), resp.CodeUnauthorized, "bad login"},
		{domain.Store("list users", errors.New("connection refused")), resp.CodeServerError, msgInternal},
		{errors.New("boom"), resp.CodeServerError, msgInternal},
	}
	for _, tc := range cases {
		next = tc.err
		out = call(t, r, http.MethodPost, "/echo", `{"name":"a"}`)
		assert.Equal(t, tc.code, out.Code, tc.err.Error())
		assert.Equal(t, tc.msg, out.Msg)
		assert.NotContains(t, out.Msg, "connection refused")
	}
	assert.Equal(t, 2, logs.Len())
}

func TestRegisterAction_AuthAndRoles(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(KeyUserID, uid)
			c.Set(KeyRole, c.GetHeader("X-Test-Role"))
		}
	})
	e := New(r.Group(""), zap.NewNop())
	RegisterAction(e, Action[struct{}, string]{
		Method:  http.MethodGet,
		Path:    "/admin-only",
		Binder:  BindNone,
		Auth:    true,
		Roles:   []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (string, error) { return UserID(c), nil },
	})

	req := func(uid, role string) resp.Resp {
		hr := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		hr.Header.Set("X-Test-User", uid)
		hr.Header.Set("X-Test-Role", role)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, hr)
		var out resp.Resp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	assert.Equal(t, resp.CodeUnauthorized, req("", "").Code)
	assert.Equal(t, resp.CodeForbidden, req("u1", domain.RoleMember).Code)
	out := req("a1", domain.RoleAdmin)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, "a1", out.Data)
}
