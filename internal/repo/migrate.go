package repo

import (
	"gorm.io/gorm"

	"trally-server/internal/domain"
)

// Models 마이그레이션 대상 테이블
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Schedule{},
		&domain.Topic{},
		&domain.AttendanceYear{},
		&domain.AttendanceMember{},
		&domain.AttendanceScheduleEntry{},
		&domain.AttendanceRecord{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
