package repo

import (
	"context"

	"gorm.io/gorm"

	"trally-server/internal/domain"
)

// deleted 기본키 삭제에서 0행이면 없는 것으로 본다
func deleted(res *gorm.DB, msg string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(msg)
	}
	return nil
}

// updated MySQL 은 값이 그대로면 RowsAffected 가 0 이라 존재 여부를 한 번 더 확인
func updated(ctx context.Context, db *gorm.DB, res *gorm.DB, model any, id, msg string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(msg)
	}
	return nil
}
