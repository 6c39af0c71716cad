package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawalRequest is a user's request to pay out wallet funds. The balance
// check happens at approval time, not request time.
type WithdrawalRequest struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	OrderRef    string          `gorm:"size:64;uniqueIndex;not null" json:"order_ref"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BankDetails string          `gorm:"type:text" json:"bank_details"` // opaque JSON
	Status      string          `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	ProcessedAt *time.Time      `json:"processed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
