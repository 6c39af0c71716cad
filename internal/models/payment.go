package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is a user-submitted proof of payment awaiting admin review: either a
// wallet deposit or a plan purchase, distinguished by the Purpose enum.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Purpose    string          `gorm:"size:20;not null;index" json:"purpose"` // wallet_deposit | plan_purchase
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PackageID  *uint           `gorm:"index" json:"package_id"` // set for plan_purchase
	Reference  string          `gorm:"size:128" json:"reference"` // external txn ref / proof id
	Status     string          `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	ApprovedAt *time.Time      `json:"approved_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Package *Package `gorm:"foreignKey:PackageID" json:"-"`
}

func (Payment) TableName() string { return "payments" }
