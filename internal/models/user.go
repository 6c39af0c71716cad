package models

import (
	"time"

	"edumart/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	ReferralCode    string         `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy      *uint          `gorm:"index" json:"referred_by"` // user id of the referrer, nil when organic
	ActivePackageID *uint          `gorm:"index" json:"active_package_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

func (User) TableName() string { return "users" }
