// Package app owns the process-wide projections of the store and serialises reloads after writes.
package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trally-server/internal/domain"
	"trally-server/internal/feature/attendance"
	"trally-server/internal/feature/topic"
	"trally-server/internal/service"
)

type Services struct {
	Directory  *service.DirectoryService
	Schedules  *service.ScheduleService
	Topics     *service.TopicService
	Attendance *service.AttendanceService
}

type collection int

const (
	colApproved collection = iota
	colPending
	colSchedules
	colTopics
	colYears
)

// Users 승인/대기 목록을 함께 돌려준다
type Users struct {
	Approved []domain.User `json:"approved"`
	Pending  []domain.User `json:"pending"`
}

type yearEntry struct {
	view     *service.YearView
	loadedAt time.Time
}

// State 읽기는 복사본, 쓰기는 "서비스 호출 → 재조회 → 재조회 결과 반환"
type State struct {
	svc Services
	l   *zap.Logger
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	approved  []domain.User
	pending   []domain.User
	schedules []domain.Schedule
	topics    []domain.Topic
	years     []domain.AttendanceYear
	loadedAt  map[collection]time.Time
	views     map[string]yearEntry
	current   string // 마지막으로 선택한 연도
}

// New ttl 이 지난 투영은 읽을 때 다시 불러온다 (다른 프로세스도 같은 저장소를 쓴다)
func New(svc Services, l *zap.Logger, ttl time.Duration) *State {
	return &State{
		svc:      svc,
		l:        l,
		ttl:      ttl,
		now:      time.Now,
		loadedAt: map[collection]time.Time{},
		views:    map[string]yearEntry{},
	}
}

// LoadAll 독립 로드를 동시에 실행. 하나가 실패해도 나머지는 계속된다
func (s *State) LoadAll(ctx context.Context) {
	var g errgroup.Group
	for _, c := range []collection{colApproved, colPending, colSchedules, colTopics, colYears} {
		c := c
		g.Go(func() error {
			if err := s.reload(ctx, c); err != nil {
				s.l.Warn("initial load failed", zap.Int("collection", int(c)), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *State) reload(ctx context.Context, c collection) error {
	var err error
	switch c {
	case colApproved:
		var v []domain.User
		if v, err = s.svc.Directory.ListApproved(ctx); err == nil {
			s.mu.Lock()
			s.approved = v
		}
	case colPending:
		var v []domain.User
		if v, err = s.svc.Directory.ListPending(ctx); err == nil {
			s.mu.Lock()
			s.pending = v
		}
	case colSchedules:
		var v []domain.Schedule
		if v, err = s.svc.Schedules.List(ctx); err == nil {
			s.mu.Lock()
			s.schedules = v
		}
	case colTopics:
		var v []domain.Topic
		if v, err = s.svc.Topics.List(ctx); err == nil {
			s.mu.Lock()
			s.topics = v
		}
	case colYears:
		var v []domain.AttendanceYear
		if v, err = s.svc.Attendance.ListYears(ctx); err == nil {
			s.mu.Lock()
			s.years = v
		}
	}
	if err != nil {
		return err
	}
	s.loadedAt[c] = s.now()
	s.mu.Unlock()
	return nil
}

func (s *State) fresh(c collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.loadedAt[c]
	return ok && s.ttl > 0 && s.now().Sub(at) < s.ttl
}

func (s *State) ensure(ctx context.Context, cs ...collection) error {
	for _, c := range cs {
		if s.fresh(c) {
			continue
		}
		if err := s.reload(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// ---------- 회원 ----------

func (s *State) Users(ctx context.Context) (Users, error) {
	if err := s.ensure(ctx, colApproved, colPending); err != nil {
		return Users{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Users{Approved: slices.Clone(s.approved), Pending: slices.Clone(s.pending)}, nil
}

func (s *State) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	u, err := s.svc.Directory.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.reload(ctx, colPending); err != nil {
		s.l.Warn("reload pending users failed", zap.Error(err))
	}
	return u, nil
}

func (s *State) Approve(ctx context.Context, id string) (Users, error) {
	return s.userAction(ctx, func() error { _, err := s.svc.Directory.Approve(ctx, id); return err })
}

func (s *State) Reject(ctx context.Context, id string) (Users, error) {
	return s.userAction(ctx, func() error { _, err := s.svc.Directory.Reject(ctx, id); return err })
}

func (s *State) Unapprove(ctx context.Context, id string) (Users, error) {
	return s.userAction(ctx, func() error { _, err := s.svc.Directory.Unapprove(ctx, id); return err })
}

func (s *State) DeleteUser(ctx context.Context, id string) (Users, error) {
	return s.userAction(ctx, func() error { return s.svc.Directory.DeleteUser(ctx, id) })
}

func (s *State) userAction(ctx context.Context, fn func() error) (Users, error) {
	if err := fn(); err != nil {
		return Users{}, err
	}
	for _, c := range []collection{colApproved, colPending} {
		if err := s.reload(ctx, c); err != nil {
			return Users{}, err
		}
	}
	return s.Users(ctx)
}

// ---------- 일정 ----------

func (s *State) Schedules(ctx context.Context) ([]domain.Schedule, error) {
	if err := s.ensure(ctx, colSchedules); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.schedules), nil
}

func (s *State) CreateSchedule(ctx context.Context, sc *domain.Schedule) ([]domain.Schedule, error) {
	return s.scheduleAction(ctx, func() error { return s.svc.Schedules.Create(ctx, sc) })
}

func (s *State) UpdateSchedule(ctx context.Context, id string, sc *domain.Schedule) ([]domain.Schedule, error) {
	return s.scheduleAction(ctx, func() error { return s.svc.Schedules.Update(ctx, id, sc) })
}

func (s *State) DeleteSchedule(ctx context.Context, id string) ([]domain.Schedule, error) {
	return s.scheduleAction(ctx, func() error { return s.svc.Schedules.Delete(ctx, id) })
}

// ImportSchedules 일부만 들어간 경우에도 목록은 다시 불러온다
func (s *State) ImportSchedules(ctx context.Context, rows []domain.Schedule, mode service.ImportMode) (int, []domain.Schedule, error) {
	loaded, err := s.Schedules(ctx)
	if err != nil {
		return 0, nil, err
	}
	n, importErr := s.svc.Schedules.BulkImport(ctx, loaded, rows, mode)
	if err := s.reload(ctx, colSchedules); err != nil {
		return n, nil, err
	}
	list, err := s.Schedules(ctx)
	if err != nil {
		return n, nil, err
	}
	return n, list, importErr
}

func (s *State) scheduleAction(ctx context.Context, fn func() error) ([]domain.Schedule, error) {
	if err := fn(); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, colSchedules); err != nil {
		return nil, err
	}
	return s.Schedules(ctx)
}

// ---------- 주제 ----------

func (s *State) Topics(ctx context.Context) ([]domain.Topic, error) {
	if err := s.ensure(ctx, colTopics); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.topics), nil
}

func (s *State) TopicBoard(ctx context.Context, filter string) (topic.Board, error) {
	list, err := s.Topics(ctx)
	if err != nil {
		return topic.Board{}, err
	}
	return s.svc.Topics.Grouped(list, filter), nil
}

func (s *State) CreateTopic(ctx context.Context, in service.TopicInput) ([]domain.Topic, error) {
	return s.topicAction(ctx, func() error { _, err := s.svc.Topics.Create(ctx, in); return err })
}

func (s *State) UpdateTopic(ctx context.Context, id string, in service.TopicInput) ([]domain.Topic, error) {
	return s.topicAction(ctx, func() error { return s.svc.Topics.Update(ctx, id, in) })
}

func (s *State) DeleteTopic(ctx context.Context, id string) ([]domain.Topic, error) {
	return s.topicAction(ctx, func() error { return s.svc.Topics.Delete(ctx, id) })
}

func (s *State) topicAction(ctx context.Context, fn func() error) ([]domain.Topic, error) {
	if err := fn(); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, colTopics); err != nil {
		return nil, err
	}
	return s.Topics(ctx)
}

// ---------- 출석부 ----------

func (s *State) Years(ctx context.Context) ([]domain.AttendanceYear, error) {
	if err := s.ensure(ctx, colYears); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.years), nil
}

func (s *State) AddYear(ctx context.Context, year int) ([]domain.AttendanceYear, error) {
	loaded, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.svc.Attendance.AddYear(ctx, loaded, year); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, colYears); err != nil {
		return nil, err
	}
	return s.Years(ctx)
}

// DeleteYear 삭제 후 가장 최근 연도를 선택, 남은 연도가 없으면 선택 해제
func (s *State) DeleteYear(ctx context.Context, id string) ([]domain.AttendanceYear, *service.YearView, error) {
	if err := s.svc.Attendance.DeleteYear(ctx, id); err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	delete(s.views, id)
	s.mu.Unlock()
	if err := s.reload(ctx, colYears); err != nil {
		return nil, nil, err
	}
	years, err := s.Years(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(years) == 0 {
		s.mu.Lock()
		s.current = ""
		s.mu.Unlock()
		return years, nil, nil
	}
	view, err := s.SelectYear(ctx, years[0].ID)
	return years, view, err
}

// SelectYear 연도 선택: 멤버 → 일정 → 기록을 새로 불러온다
func (s *State) SelectYear(ctx context.Context, yearID string) (*service.YearView, error) {
	view, err := s.reloadYear(ctx, yearID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = yearID
	s.mu.Unlock()
	return view, nil
}

// Current 마지막으로 선택한 연도. 아직 선택 전이면 가장 최근 연도를 선택, 연도가 없으면 nil
func (s *State) Current(ctx context.Context) (*service.YearView, error) {
	s.mu.RLock()
	id := s.current
	s.mu.RUnlock()
	if id != "" {
		return s.YearView(ctx, id)
	}
	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, nil
	}
	return s.SelectYear(ctx, years[0].ID)
}

func (s *State) YearView(ctx context.Context, yearID string) (*service.YearView, error) {
	s.mu.RLock()
	e, ok := s.views[yearID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 && s.now().Sub(e.loadedAt) < s.ttl {
		return cloneView(e.view), nil
	}
	return s.reloadYear(ctx, yearID)
}

func (s *State) Grid(ctx context.Context, yearID string) (attendance.Grid, error) {
	view, err := s.YearView(ctx, yearID)
	if err != nil {
		return attendance.Grid{}, err
	}
	return view.Grid(), nil
}

func (s *State) AddMember(ctx context.Context, yearID, name string) (*service.YearView, error) {
	return s.yearAction(ctx, yearID, func() error { _, err := s.svc.Attendance.AddMember(ctx, yearID, name); return err })
}

func (s *State) DeleteMember(ctx context.Context, yearID, memberID string) (*service.YearView, error) {
	return s.yearAction(ctx, yearID, func() error { return s.svc.Attendance.DeleteMember(ctx, yearID, memberID) })
}

func (s *State) AddEntry(ctx context.Context, yearID, date string) (*service.YearView, error) {
	return s.yearAction(ctx, yearID, func() error { _, err := s.svc.Attendance.AddEntry(ctx, yearID, date); return err })
}

func (s *State) DeleteEntry(ctx context.Context, yearID, entryID string) (*service.YearView, error) {
	return s.yearAction(ctx, yearID, func() error { return s.svc.Attendance.DeleteEntry(ctx, yearID, entryID) })
}

func (s *State) SaveCell(ctx context.Context, yearID string, in service.CellInput) (*service.YearView, error) {
	return s.yearAction(ctx, yearID, func() error { _, err := s.svc.Attendance.SaveCell(ctx, yearID, in); return err })
}

func (s *State) yearAction(ctx context.Context, yearID string, fn func() error) (*service.YearView, error) {
	if err := fn(); err != nil {
		return nil, err
	}
	return s.reloadYear(ctx, yearID)
}

func (s *State) reloadYear(ctx context.Context, yearID string) (*service.YearView, error) {
	view, err := s.svc.Attendance.LoadYear(ctx, yearID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.views[yearID] = yearEntry{view: view, loadedAt: s.now()}
	s.mu.Unlock()
	return cloneView(view), nil
}

func cloneView(v *service.YearView) *service.YearView {
	return &service.YearView{
		Year:    v.Year,
		Members: slices.Clone(v.Members),
		Entries: slices.Clone(v.Entries),
		Records: slices.Clone(v.Records),
	}
}
