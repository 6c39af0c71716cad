package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AffiliateLink is a user's referral link for one product. The commission rule
// lives here (fixed amount wins over percentage); Clicks, Conversions and
// TotalCommission are denormalized counters bumped by downstream events.
type AffiliateLink struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	UserID               uint            `gorm:"not null;index:idx_affiliate_user_product,unique" json:"user_id"`
	ProductID            uint            `gorm:"not null;index:idx_affiliate_user_product,unique" json:"product_id"`
	Code                 string          `gorm:"uniqueIndex;size:20;not null" json:"code"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"commission_amount"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commission_percentage"`
	Clicks               int64           `gorm:"not null;default:0" json:"clicks"`
	Conversions          int64           `gorm:"not null;default:0" json:"conversions"`
	TotalCommission      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_commission"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (AffiliateLink) TableName() string { return "affiliate_links" }
