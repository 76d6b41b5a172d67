package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trally-server/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID 없으면 (nil, nil)
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindApproved 승인된 사용자만. 없으면 (nil, nil)
func (r *UserRepo) FindApproved(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND approved = ?", username, true).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameExists 승인 여부와 무관
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) ListByApproval(ctx context.Context, approved bool) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).
		Where("approved = ?", approved).
		Order("request_date ASC").
		Find(&us).Error
	return us, err
}

func (r *UserRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	// MySQL 은 값이 그대로면 RowsAffected 가 0 이므로 존재 판단에 쓰지 않는다
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("approved", approved).Error
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}), "user not found")
}
