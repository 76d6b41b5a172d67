package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trally-server/pkg/utils"
)

// Topic 토론 주제. Author 는 "민구-다흰" 처럼 공동 제안자를 포함할 수 있다
type Topic struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Author    string    `gorm:"size:128" json:"author"`
	Topic     string    `gorm:"type:text;not null" json:"topic"`
	Keywords  *string   `gorm:"size:255" json:"keywords"`
	Date      *string   `gorm:"size:64" json:"date"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Topic) TableName() string { return "topics" }

func (t *Topic) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	return nil
}

type TopicRepository interface {
	Create(ctx context.Context, t *Topic) error
	Update(ctx context.Context, id string, t *Topic) error
	Delete(ctx context.Context, id string) error
	// List created_at 내림차순
	List(ctx context.Context) ([]Topic, error)
}
