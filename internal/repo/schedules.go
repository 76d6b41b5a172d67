package repo

import (
	"context"

	"gorm.io/gorm"

	"trally-server/internal/domain"
)

type ScheduleRepo struct{ db *gorm.DB }

func NewScheduleRepo(db *gorm.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// 수정 시 컬럼을 명시해서 nil 포인터도 NULL 로 쓴다
var scheduleColumns = []string{"Number", "Presenter", "Moderator", "Date", "Topic", "Location", "Guest", "Remarks"}

func (r *ScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleRepo) Update(ctx context.Context, id string, s *domain.Schedule) error {
	res := r.db.WithContext(ctx).Model(&domain.Schedule{}).
		Where("id = ?", id).
		Select(scheduleColumns).
		Updates(s)
	return updated(ctx, r.db, res, &domain.Schedule{}, id, "schedule not found")
}

func (r *ScheduleRepo) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Schedule{}), "schedule not found")
}

func (r *ScheduleRepo) List(ctx context.Context) ([]domain.Schedule, error) {
	var ss []domain.Schedule
	err := r.db.WithContext(ctx).Order("number DESC").Find(&ss).Error
	return ss, err
}
