package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's balances. Wallet is the only spendable pool; the
// income columns are additive category subtotals and TotalIncome /
// WithdrawnAmount are lifetime counters. Created lazily on first credit and
// never deleted. Balances are a materialized view of the ledger.
type Account struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Wallet          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"wallet"`
	ReferralIncome  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"referral_income"`
	LevelIncome     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"level_income"`
	ShareIncome     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"share_income"`
	TaskIncome      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"task_income"`
	TotalIncome     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_income"`
	WithdrawnAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"withdrawn_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Account) TableName() string { return "accounts" }
