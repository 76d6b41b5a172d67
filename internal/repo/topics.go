package repo

import (
	"context"

	"gorm.io/gorm"

	"trally-server/internal/domain"
)

type TopicRepo struct{ db *gorm.DB }

func NewTopicRepo(db *gorm.DB) *TopicRepo { return &TopicRepo{db: db} }

var topicColumns = []string{"Author", "Topic", "Keywords", "Date", "Completed"}

func (r *TopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TopicRepo) Update(ctx context.Context, id string, t *domain.Topic) error {
	res := r.db.WithContext(ctx).Model(&domain.Topic{}).
		Where("id = ?", id).
		Select(topicColumns).
		Updates(t)
	return updated(ctx, r.db, res, &domain.Topic{}, id, "topic not found")
}

func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Topic{}), "topic not found")
}

func (r *TopicRepo) List(ctx context.Context) ([]domain.Topic, error) {
	var ts []domain.Topic
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ts).Error
	return ts, err
}
