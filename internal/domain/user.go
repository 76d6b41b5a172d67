package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trally-server/pkg/utils"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;size:100;not null" json:"-"`
	Email        string    `gorm:"size:191" json:"email"`
	Intro        string    `gorm:"type:text" json:"intro"`
	Role         string    `gorm:"size:16;not null;default:member" json:"role"` // "member"/"admin"
	Approved     bool      `gorm:"not null;default:false;index" json:"approved"`
	RequestDate  time.Time `json:"request_date"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindApproved(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListByApproval(ctx context.Context, approved bool) ([]User, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}
