package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trally-server/internal/domain"
	"trally-server/internal/feature/attendance"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/ez"
)

// yearOut 原始数据 + 展示用表格
type yearOut struct {
	*service.YearView
	Grid attendance.Grid `json:"grid"`
}

func toYearOut(v *service.YearView) *yearOut {
	if v == nil {
		return nil
	}
	return &yearOut{YearView: v, Grid: v.Grid()}
}

type yearDeletedOut struct {
	Years   []domain.AttendanceYear `json:"years"`
	Current *yearOut                `json:"current"`
}

type attendanceModule struct{ *env }

func (attendanceModule) Priority() int { return 40 }

func (m *attendanceModule) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api.Group("/attendance"), m.l)
	ez.RegisterAction(public, ez.Action[struct{}, []domain.AttendanceYear]{
		Method: http.MethodGet,
		Path:   "/years",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.AttendanceYear, error) {
			return m.State.Years(c.Request.Context())
		},
	})
	ez.RegisterAction(public, ez.Action[struct{}, *yearOut]{
		Method: http.MethodGet,
		Path:   "/years/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*yearOut, error) {
			v, err := m.State.SelectYear(c.Request.Context(), c.Param("id"))
			return toYearOut(v), err
		},
	})
	// 最后选中的年份；未选过则选最新年份，没有年份时为 null
	ez.RegisterAction(public, ez.Action[struct{}, *yearOut]{
		Method: http.MethodGet,
		Path:   "/current",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*yearOut, error) {
			v, err := m.State.Current(c.Request.Context())
			return toYearOut(v), err
		},
	})

	authed := ez.New(api.Group("/attendance/years", m.authed), m.l)

	type yearIn struct {
		Year int `json:"year"`
	}
	ez.RegisterAction(authed, ez.Action[yearIn, []domain.AttendanceYear]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *yearIn) ([]domain.AttendanceYear, error) {
			return m.State.AddYear(c.Request.Context(), in.Year)
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, yearDeletedOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (yearDeletedOut, error) {
			years, v, err := m.State.DeleteYear(c.Request.Context(), c.Param("id"))
			if err != nil {
				return yearDeletedOut{}, err
			}
			return yearDeletedOut{Years: years, Current: toYearOut(v)}, nil
		},
	})

	type memberIn struct {
		Name string `json:"name"`
	}
	ez.RegisterAction(authed, ez.Action[memberIn, *yearOut]{
		Method: http.MethodPost,
		Path:   "/:id/members",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *memberIn) (*yearOut, error) {
			v, err := m.State.AddMember(c.Request.Context(), c.Param("id"), in.Name)
			return toYearOut(v), err
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *yearOut]{
		Method: http.MethodDelete,
		Path:   "/:id/members/:memberId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*yearOut, error) {
			v, err := m.State.DeleteMember(c.Request.Context(), c.Param("id"), c.Param("memberId"))
			return toYearOut(v), err
		},
	})

	type entryIn struct {
		ScheduleDate string `json:"schedule_date"`
	}
	ez.RegisterAction(authed, ez.Action[entryIn, *yearOut]{
		Method: http.MethodPost,
		Path:   "/:id/entries",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *entryIn) (*yearOut, error) {
			v, err := m.State.AddEntry(c.Request.Context(), c.Param("id"), in.ScheduleDate)
			return toYearOut(v), err
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *yearOut]{
		Method: http.MethodDelete,
		Path:   "/:id/entries/:entryId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*yearOut, error) {
			v, err := m.State.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"))
			return toYearOut(v), err
		},
	})

	ez.RegisterAction(authed, ez.Action[service.CellInput, *yearOut]{
		Method: http.MethodPut,
		Path:   "/:id/records",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.CellInput) (*yearOut, error) {
			v, err := m.State.SaveCell(c.Request.Context(), c.Param("id"), *in)
			return toYearOut(v), err
		},
	})
}
