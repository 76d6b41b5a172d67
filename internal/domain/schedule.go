package domain

import (
	"context"

	"gorm.io/gorm"

	"trally-server/pkg/utils"
)

// Schedule 모임 일정. Number 는 회차, 중복 허용 (일괄 업로드 시 중복 판단 키)
type Schedule struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	Number    *int    `gorm:"index" json:"number"`
	Presenter *string `gorm:"size:128" json:"presenter"`
	Moderator *string `gorm:"size:128" json:"moderator"`
	Date      *string `gorm:"size:64" json:"date"`
	Topic     *string `gorm:"type:text" json:"topic"`
	Location  *string `gorm:"size:255" json:"location"`
	Guest     *string `gorm:"size:255" json:"guest"`
	Remarks   *string `gorm:"type:text" json:"remarks"`
}

func (Schedule) TableName() string { return "schedules" }

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = utils.NewID()
	}
	return nil
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	Update(ctx context.Context, id string, s *Schedule) error
	Delete(ctx context.Context, id string) error
	// List 회차 내림차순
	List(ctx context.Context) ([]Schedule, error)
}
