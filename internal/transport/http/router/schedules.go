package router

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"trally-server/internal/domain"
	"trally-server/internal/feature/schedule"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/ez"
	"trally-server/pkg/datefmt"
)

// scheduleView 列表响应：同时返回展示用日期和编辑表单用的 ISO 日期
type scheduleView struct {
	domain.Schedule
	DisplayDate string `json:"display_date"`
	ISODate     string `json:"iso_date"`
}

func toScheduleViews(list []domain.Schedule) []scheduleView {
	out := make([]scheduleView, 0, len(list))
	for _, s := range list {
		v := scheduleView{Schedule: s}
		if s.Date != nil {
			v.DisplayDate = datefmt.ToDisplay(*s.Date)
			v.ISODate = datefmt.ToISO(*s.Date)
		}
		out = append(out, v)
	}
	return out
}

type scheduleIn struct {
	Number    schedule.LooseInt `json:"number"`
	Presenter *string           `json:"presenter" validate:"omitempty,max=128"`
	Moderator *string           `json:"moderator" validate:"omitempty,max=128"`
	Date      *string           `json:"date" validate:"omitempty,max=64"`
	Topic     *string           `json:"topic"`
	Location  *string           `json:"location" validate:"omitempty,max=255"`
	Guest     *string           `json:"guest" validate:"omitempty,max=255"`
	Remarks   *string           `json:"remarks"`
}

func (in scheduleIn) toDomain() *domain.Schedule {
	return &domain.Schedule{
		Number:    in.Number.V,
		Presenter: in.Presenter,
		Moderator: in.Moderator,
		Date:      in.Date,
		Topic:     in.Topic,
		Location:  in.Location,
		Guest:     in.Guest,
		Remarks:   in.Remarks,
	}
}

type scheduleModule struct{ *env }

func (scheduleModule) Priority() int { return 20 }

func (m *scheduleModule) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api, m.l)
	ez.RegisterAction(public, ez.Action[struct{}, []scheduleView]{
		Method: http.MethodGet,
		Path:   "/schedules",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]scheduleView, error) {
			list, err := m.State.Schedules(c.Request.Context())
			return toScheduleViews(list), err
		},
	})

	authed := ez.New(api.Group("/schedules", m.authed), m.l)
	ez.RegisterAction(authed, ez.Action[scheduleIn, []scheduleView]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *scheduleIn) ([]scheduleView, error) {
			list, err := m.State.CreateSchedule(c.Request.Context(), in.toDomain())
			return toScheduleViews(list), err
		},
	})
	ez.RegisterAction(authed, ez.Action[scheduleIn, []scheduleView]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *scheduleIn) ([]scheduleView, error) {
			list, err := m.State.UpdateSchedule(c.Request.Context(), c.Param("id"), in.toDomain())
			return toScheduleViews(list), err
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, []scheduleView]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]scheduleView, error) {
			list, err := m.State.DeleteSchedule(c.Request.Context(), c.Param("id"))
			return toScheduleViews(list), err
		},
	})
}

type importIn struct {
	File *multipart.FileHeader `form:"file" validate:"required"`
	Mode string                `form:"mode"`
}

type importOut struct {
	Uploaded  int            `json:"uploaded"`
	Schedules []scheduleView `json:"schedules"`
}

func (m *scheduleModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.l)
	ez.RegisterAction(e, ez.Action[importIn, importOut]{
		Method: http.MethodPost,
		Path:   "/schedules/import",
		Binder: ez.BindMultipart,
		Auth:   true,
		Handler: func(c *gin.Context, in *importIn) (importOut, error) {
			mode, err := service.ParseImportMode(in.Mode)
			if err != nil {
				return importOut{}, err
			}
			f, err := in.File.Open()
			if err != nil {
				return importOut{}, ez.BadRequest("업로드한 파일을 열 수 없습니다.")
			}
			defer f.Close()

			rows, err := schedule.ReadWorkbook(f)
			switch {
			case errors.Is(err, schedule.ErrEmptySheet):
				return importOut{}, domain.Validation("엑셀 파일에 데이터가 없습니다.")
			case err != nil:
				return importOut{}, ez.BadRequest("엑셀 파일을 읽을 수 없습니다.")
			}

			n, list, err := m.State.ImportSchedules(c.Request.Context(), schedule.ToSchedules(rows), mode)
			if err != nil {
				return importOut{}, err
			}
			return importOut{Uploaded: n, Schedules: toScheduleViews(list)}, nil
		},
	})
}
