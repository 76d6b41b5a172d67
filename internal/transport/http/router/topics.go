package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trally-server/internal/domain"
	"trally-server/internal/feature/topic"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/ez"
)

// topicsOut 分组展示 + 编辑表单用的原始列表
type topicsOut struct {
	topic.Board
	Topics []domain.Topic `json:"topics"`
}

type topicModule struct{ *env }

func (topicModule) Priority() int { return 30 }

func (m *topicModule) board(c *gin.Context, filter string) (topicsOut, error) {
	ctx := c.Request.Context()
	b, err := m.State.TopicBoard(ctx, filter)
	if err != nil {
		return topicsOut{}, err
	}
	list, err := m.State.Topics(ctx)
	if err != nil {
		return topicsOut{}, err
	}
	return topicsOut{Board: b, Topics: list}, nil
}

func (m *topicModule) MountAPI(api *gin.RouterGroup) {
	type boardQ struct {
		Author string `form:"author"`
	}
	ez.RegisterAction(ez.New(api, m.l), ez.Action[boardQ, topicsOut]{
		Method: http.MethodGet,
		Path:   "/topics",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *boardQ) (topicsOut, error) {
			return m.board(c, in.Author)
		},
	})

	authed := ez.New(api.Group("/topics", m.authed), m.l)
	ez.RegisterAction(authed, ez.Action[service.TopicInput, topicsOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.TopicInput) (topicsOut, error) {
			if _, err := m.State.CreateTopic(c.Request.Context(), *in); err != nil {
				return topicsOut{}, err
			}
			return m.board(c, c.Query("author"))
		},
	})
	ez.RegisterAction(authed, ez.Action[service.TopicInput, topicsOut]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.TopicInput) (topicsOut, error) {
			if _, err := m.State.UpdateTopic(c.Request.Context(), c.Param("id"), *in); err != nil {
				return topicsOut{}, err
			}
			return m.board(c, c.Query("author"))
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, topicsOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (topicsOut, error) {
			if _, err := m.State.DeleteTopic(c.Request.Context(), c.Param("id")); err != nil {
				return topicsOut{}, err
			}
			return m.board(c, c.Query("author"))
		},
	})
}
