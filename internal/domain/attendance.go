package domain

import (
	"context"

	"gorm.io/gorm"

	"trally-server/pkg/utils"
)

// 출석 표시값
const (
	MarkNone    = ""
	MarkPresent = "O"
	MarkAbsent  = "X"
)

type AttendanceYear struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Year int    `gorm:"uniqueIndex;not null" json:"year"`
}

func (AttendanceYear) TableName() string { return "attendance_years" }

type AttendanceMember struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	YearID    string `gorm:"size:36;not null;index" json:"year_id"`
	Name      string `gorm:"size:64;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

func (AttendanceMember) TableName() string { return "attendance_members" }

// AttendanceScheduleEntry 출석부의 한 열. ScheduleDate 는 "1/11" 같은 자유 텍스트
type AttendanceScheduleEntry struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	YearID       string `gorm:"size:36;not null;index" json:"year_id"`
	ScheduleDate string `gorm:"size:16;not null" json:"schedule_date"`
	SortOrder    int    `gorm:"not null;default:0" json:"sort_order"`
}

func (AttendanceScheduleEntry) TableName() string { return "attendance_schedules" }

// AttendanceRecord 한 칸. (schedule_id, member_id) 유일
type AttendanceRecord struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	ScheduleID string `gorm:"size:36;not null;uniqueIndex:uq_attendance_cell" json:"schedule_id"`
	MemberID   string `gorm:"size:36;not null;uniqueIndex:uq_attendance_cell;index" json:"member_id"`
	Attendance string `gorm:"size:1;not null" json:"attendance"`
	Reason     string `gorm:"size:255" json:"reason"`
	RecordDate string `gorm:"size:32" json:"record_date"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }

func (y *AttendanceYear) BeforeCreate(*gorm.DB) error {
	if y.ID == "" {
		y.ID = utils.NewID()
	}
	return nil
}

func (m *AttendanceMember) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	return nil
}

func (e *AttendanceScheduleEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.NewID()
	}
	return nil
}

func (r *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.NewID()
	}
	return nil
}

type AttendanceRepository interface {
	ListYears(ctx context.Context) ([]AttendanceYear, error)
	FindYear(ctx context.Context, id string) (*AttendanceYear, error)
	CreateYear(ctx context.Context, y *AttendanceYear) error
	// DeleteYear 연도 + 멤버 + 일정 + 기록을 한 트랜잭션에서 삭제. 없는 연도면 NotFound
	DeleteYear(ctx context.Context, id string) error

	ListMembers(ctx context.Context, yearID string) ([]AttendanceMember, error)
	FindMember(ctx context.Context, id string) (*AttendanceMember, error)
	CreateMember(ctx context.Context, m *AttendanceMember) error
	DeleteMember(ctx context.Context, id string) error

	ListEntries(ctx context.Context, yearID string) ([]AttendanceScheduleEntry, error)
	FindEntry(ctx context.Context, id string) (*AttendanceScheduleEntry, error)
	CreateEntry(ctx context.Context, e *AttendanceScheduleEntry) error
	DeleteEntry(ctx context.Context, id string) error

	ListRecords(ctx context.Context, scheduleIDs []string) ([]AttendanceRecord, error)
	FindRecord(ctx context.Context, scheduleID, memberID string) (*AttendanceRecord, error)
	UpsertRecord(ctx context.Context, r *AttendanceRecord) error
}
