package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a physical or digital item buyable through the shop. Cashback is
// a fixed per-unit amount, snapshotted onto the order at creation time.
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CashbackAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cashback_amount"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }

// Package is a subscription plan purchasable via a plan_purchase payment.
type Package struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationDays int             `gorm:"not null;default:30" json:"duration_days"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Package) TableName() string { return "packages" }
