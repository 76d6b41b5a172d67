// Package ez registers typed gin handlers: bind → validate → run → wrap in the {code,msg,data} envelope.
package ez

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"trally-server/internal/domain"
	resp "trally-server/internal/transport/http/response"
	"trally-server/internal/validation"
)

// AuthJWT 写入上下文的键
const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// 存储层错误不把细节返回给客户端
const msgInternal = "요청 처리 중 오류가 발생했습니다."

var validate = validation.New()

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, l: l} }

func (e EZ) Group(path string, handlers ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, handlers...), l: e.l}
}

type Binder string

const (
	BindJSON      Binder = "json"      // 请求体 JSON
	BindQuery     Binder = "query"     // URL ?a=b
	BindMultipart Binder = "multipart" // multipart/form-data，文件字段用 *multipart.FileHeader
	BindNone      Binder = "none"      // 不绑定，自己从 c.Param 取
)

// AErr transport 层自己的错误，直接给出响应码
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // 要求 AuthJWT 已写入 userId
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	isStruct := reflect.TypeOf((*I)(nil)).Elem().Kind() == reflect.Struct

	h := func(c *gin.Context) {
		if a.Auth {
			if c.GetString(KeyUserID) == "" {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, c.GetString(KeyRole)) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindMultipart:
			bindErr = c.ShouldBindWith(&in, binding.FormMultipart)
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}
		if isStruct && a.Binder != BindNone {
			if err := validate.Validate(&in); err != nil {
				e.fail(c, err)
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// fail 统一错误映射：AErr → 自带码；domain.Error → 按 Kind；其余一律 500
func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Code >= resp.CodeServerError {
			e.log(c, err)
		}
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusOK, resp.Error(resp.CodeTimeout, "timeout"))
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		e.log(c, err)
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, msgInternal))
		return
	}
	switch de.Kind {
	case domain.KindValidation:
		var data any
		if len(de.Fields) > 0 {
			data = gin.H{"fields": de.Fields}
		}
		c.JSON(http.StatusOK, resp.Fail(resp.CodeBadRequest, de.Message, data))
	case domain.KindNotFound:
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, de.Message))
	case domain.KindUnauthorized:
		c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, de.Message))
	case domain.KindForbidden:
		c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, de.Message))
	default:
		e.log(c, err)
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, msgInternal))
	}
}

func (e EZ) log(c *gin.Context, err error) {
	if e.l == nil {
		return
	}
	e.l.Error("action failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("uid", c.GetString(KeyUserID)),
		zap.Error(err),
	)
}

// UserID AuthJWT 之后可用
func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }
