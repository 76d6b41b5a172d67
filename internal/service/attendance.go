package service

import (
	"context"
	"strings"

	"trally-server/internal/domain"
	"trally-server/internal/feature/attendance"
	"trally-server/internal/validation"
)

const (
	MinYear = 2020
	MaxYear = 2100
)

// CellInput 출석부 한 칸 저장
type CellInput struct {
	ScheduleID string `json:"schedule_id" validate:"required"`
	MemberID   string `json:"member_id" validate:"required"`
	Attendance string `json:"attendance" validate:"mark"`
	Reason     string `json:"reason" validate:"max=255"`
	RecordDate string `json:"record_date" validate:"max=32"`
}

// YearView 선택된 연도의 멤버 / 일정 / 기록
type YearView struct {
	Year    *domain.AttendanceYear           `json:"year"`
	Members []domain.AttendanceMember        `json:"members"`
	Entries []domain.AttendanceScheduleEntry `json:"entries"`
	Records []domain.AttendanceRecord        `json:"records"`
}

func (v YearView) Grid() attendance.Grid {
	return attendance.Build(v.Year, v.Members, v.Entries, v.Records)
}

type AttendanceService struct {
	repo     domain.AttendanceRepository
	validate *validation.Validator
}

func NewAttendanceService(repo domain.AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo, validate: validation.New()}
}

func (s *AttendanceService) ListYears(ctx context.Context) ([]domain.AttendanceYear, error) {
	ys, err := s.repo.ListYears(ctx)
	if err != nil {
		return nil, domain.Store("list years", err)
	}
	if ys == nil {
		ys = []domain.AttendanceYear{}
	}
	return ys, nil
}

// AddYear loaded 는 현재 불러온 연도 목록 (중복 검사 기준)
func (s *AttendanceService) AddYear(ctx context.Context, loaded []domain.AttendanceYear, year int) (*domain.AttendanceYear, error) {
	if year < MinYear || year > MaxYear {
		return nil, domain.Validation("올바른 연도를 입력하세요.")
	}
	for _, y := range loaded {
		if y.Year == year {
			return nil, domain.Validation("이미 존재하는 연도입니다.")
		}
	}
	y := &domain.AttendanceYear{Year: year}
	if err := s.repo.CreateYear(ctx, y); err != nil {
		return nil, domain.Store("create year", err)
	}
	return y, nil
}

func (s *AttendanceService) DeleteYear(ctx context.Context, id string) error {
	return domain.Store("delete year", s.repo.DeleteYear(ctx, id))
}

// LoadYear 멤버 → 일정 → 기록 순. 일정이 없으면 기록은 조회하지 않는다
func (s *AttendanceService) LoadYear(ctx context.Context, yearID string) (*YearView, error) {
	y, err := s.repo.FindYear(ctx, yearID)
	if err != nil {
		return nil, domain.Store("find year", err)
	}
	if y == nil {
		return nil, domain.NotFound("year not found")
	}
	members, err := s.repo.ListMembers(ctx, yearID)
	if err != nil {
		return nil, domain.Store("list members", err)
	}
	entries, err := s.repo.ListEntries(ctx, yearID)
	if err != nil {
		return nil, domain.Store("list entries", err)
	}
	view := &YearView{
		Year:    y,
		Members: nonNil(members),
		Entries: nonNil(entries),
		Records: []domain.AttendanceRecord{},
	}
	if len(entries) == 0 {
		return view, nil
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	records, err := s.repo.ListRecords(ctx, ids)
	if err != nil {
		return nil, domain.Store("list records", err)
	}
	view.Records = nonNil(records)
	return view, nil
}

func (s *AttendanceService) AddMember(ctx context.Context, yearID, name string) (*domain.AttendanceMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validation("멤버 이름을 입력하세요.")
	}
	if err := s.requireYear(ctx, yearID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, yearID)
	if err != nil {
		return nil, domain.Store("list members", err)
	}
	next := 0
	for _, m := range members {
		next = max(next, m.SortOrder)
	}
	m := &domain.AttendanceMember{YearID: yearID, Name: name, SortOrder: next + 1}
	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, domain.Store("create member", err)
	}
	return m, nil
}

// DeleteMember yearID 에 속한 멤버만 삭제
func (s *AttendanceService) DeleteMember(ctx context.Context, yearID, id string) error {
	if err := s.requireMember(ctx, yearID, id); err != nil {
		return err
	}
	return domain.Store("delete member", s.repo.DeleteMember(ctx, id))
}

func (s *AttendanceService) AddEntry(ctx context.Context, yearID, date string) (*domain.AttendanceScheduleEntry, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, domain.Validation("일정 날짜를 입력하세요.")
	}
	if !validation.MonthDay(date) {
		return nil, domain.Validation("날짜 형식이 올바르지 않습니다. (예: 1/11)")
	}
	if err := s.requireYear(ctx, yearID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, yearID)
	if err != nil {
		return nil, domain.Store("list entries", err)
	}
	next := 0
	for _, e := range entries {
		next = max(next, e.SortOrder)
	}
	e := &domain.AttendanceScheduleEntry{YearID: yearID, ScheduleDate: date, SortOrder: next + 1}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, domain.Store("create entry", err)
	}
	return e, nil
}

func (s *AttendanceService) DeleteEntry(ctx context.Context, yearID, id string) error {
	if err := s.requireEntry(ctx, yearID, id); err != nil {
		return err
	}
	return domain.Store("delete entry", s.repo.DeleteEntry(ctx, id))
}

// SaveCell (schedule_id, member_id) 단위 원자적 upsert. 멤버와 일정 모두 yearID 소속이어야 한다
func (s *AttendanceService) SaveCell(ctx context.Context, yearID string, in CellInput) (*domain.AttendanceRecord, error) {
	in.Attendance = strings.TrimSpace(in.Attendance)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, yearID, in.MemberID); err != nil {
		return nil, err
	}
	if err := s.requireEntry(ctx, yearID, in.ScheduleID); err != nil {
		return nil, err
	}
	rec := &domain.AttendanceRecord{
		ScheduleID: in.ScheduleID,
		MemberID:   in.MemberID,
		Attendance: in.Attendance,
		Reason:     in.Reason,
		RecordDate: strings.TrimSpace(in.RecordDate),
	}
	if err := s.repo.UpsertRecord(ctx, rec); err != nil {
		return nil, domain.Store("save attendance", err)
	}
	saved, err := s.repo.FindRecord(ctx, in.ScheduleID, in.MemberID)
	if err != nil {
		return nil, domain.Store("reload attendance", err)
	}
	if saved == nil {
		return rec, nil
	}
	return saved, nil
}

func (s *AttendanceService) requireYear(ctx context.Context, yearID string) error {
	y, err := s.repo.FindYear(ctx, yearID)
	if err != nil {
		return domain.Store("find year", err)
	}
	if y == nil {
		return domain.NotFound("year not found")
	}
	return nil
}

func (s *AttendanceService) requireMember(ctx context.Context, yearID, id string) error {
	m, err := s.repo.FindMember(ctx, id)
	if err != nil {
		return domain.Store("find member", err)
	}
	if m == nil || m.YearID != yearID {
		return domain.NotFound("member not found")
	}
	return nil
}

func (s *AttendanceService) requireEntry(ctx context.Context, yearID, id string) error {
	e, err := s.repo.FindEntry(ctx, id)
	if err != nil {
		return domain.Store("find entry", err)
	}
	if e == nil || e.YearID != yearID {
		return domain.NotFound("schedule entry not found")
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
