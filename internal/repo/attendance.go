package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trally-server/internal/domain"
)

type AttendanceRepo struct{ db *gorm.DB }

func NewAttendanceRepo(db *gorm.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// ---------- 연도 ----------

func (r *AttendanceRepo) ListYears(ctx context.Context) ([]domain.AttendanceYear, error) {
	var ys []domain.AttendanceYear
	err := r.db.WithContext(ctx).Order("year DESC").Find(&ys).Error
	return ys, err
}

func (r *AttendanceRepo) FindYear(ctx context.Context, id string) (*domain.AttendanceYear, error) {
	var y domain.AttendanceYear
	err := r.db.WithContext(ctx).First(&y, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}

func (r *AttendanceRepo) CreateYear(ctx context.Context, y *domain.AttendanceYear) error {
	return r.db.WithContext(ctx).Create(y).Error
}

// DeleteYear 기록 → 멤버/일정 → 연도 순으로 한 트랜잭션에서 삭제
func (r *AttendanceRepo) DeleteYear(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entryIDs := tx.Model(&domain.AttendanceScheduleEntry{}).Select("id").Where("year_id = ?", id)
		memberIDs := tx.Model(&domain.AttendanceMember{}).Select("id").Where("year_id = ?", id)
		if err := tx.Where("schedule_id IN (?) OR member_id IN (?)", entryIDs, memberIDs).
			Delete(&domain.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("year_id = ?", id).Delete(&domain.AttendanceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("year_id = ?", id).Delete(&domain.AttendanceScheduleEntry{}).Error; err != nil {
			return err
		}
		return deleted(tx.Where("id = ?", id).Delete(&domain.AttendanceYear{}), "year not found")
	})
}

// ---------- 멤버 ----------

func (r *AttendanceRepo) ListMembers(ctx context.Context, yearID string) ([]domain.AttendanceMember, error) {
	var ms []domain.AttendanceMember
	err := r.db.WithContext(ctx).Where("year_id = ?", yearID).Order("sort_order ASC").Find(&ms).Error
	return ms, err
}

func (r *AttendanceRepo) FindMember(ctx context.Context, id string) (*domain.AttendanceMember, error) {
	var m domain.AttendanceMember
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *AttendanceRepo) CreateMember(ctx context.Context, m *domain.AttendanceMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AttendanceRepo) DeleteMember(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&domain.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.AttendanceMember{}).Error
	})
}

// ---------- 일정(열) ----------

func (r *AttendanceRepo) ListEntries(ctx context.Context, yearID string) ([]domain.AttendanceScheduleEntry, error) {
	var es []domain.AttendanceScheduleEntry
	err := r.db.WithContext(ctx).Where("year_id = ?", yearID).Order("sort_order ASC").Find(&es).Error
	return es, err
}

func (r *AttendanceRepo) FindEntry(ctx context.Context, id string) (*domain.AttendanceScheduleEntry, error) {
	var e domain.AttendanceScheduleEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AttendanceRepo) CreateEntry(ctx context.Context, e *domain.AttendanceScheduleEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AttendanceRepo) DeleteEntry(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", id).Delete(&domain.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.AttendanceScheduleEntry{}).Error
	})
}

// ---------- 기록 ----------

// ListRecords 일정이 없으면 쿼리하지 않는다
func (r *AttendanceRepo) ListRecords(ctx context.Context, scheduleIDs []string) ([]domain.AttendanceRecord, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	var rs []domain.AttendanceRecord
	err := r.db.WithContext(ctx).Where("schedule_id IN ?", scheduleIDs).Find(&rs).Error
	return rs, err
}

func (r *AttendanceRepo) FindRecord(ctx context.Context, scheduleID, memberID string) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND member_id = ?", scheduleID, memberID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertRecord (schedule_id, member_id) 유일 인덱스 기반 INSERT ... ON CONFLICT DO UPDATE
func (r *AttendanceRepo) UpsertRecord(ctx context.Context, rec *domain.AttendanceRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attendance", "reason", "record_date"}),
	}).Create(rec).Error
}
