package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable record of a single credit or debit. Amount is
// always positive; Status gives the direction. The composite unique index on
// (reference_id, reference_type) is the idempotency key: at most one entry may
// exist per causal event. Entries are never updated or deleted.
type LedgerEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string          `gorm:"size:10;not null" json:"status"` // credit | debit
	Description   string          `gorm:"size:255" json:"description"`
	IncomeType    string          `gorm:"size:30" json:"income_type"` // optional category tag
	ReferenceID   *uint           `gorm:"index:idx_ledger_reference,unique" json:"reference_id"`
	ReferenceType string          `gorm:"size:30;not null;index:idx_ledger_reference,unique" json:"reference_type"`
	CreatedAt     time.Time       `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
