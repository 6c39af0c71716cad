package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a shop purchase. Status (payment review) and DeliveryStatus
// (fulfillment) are independent axes; cashback and affiliate commission are
// computed once at creation and released on the transition into delivered.
type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	UserID              uint            `gorm:"not null;index" json:"user_id"`
	ProductID           uint            `gorm:"not null;index" json:"product_id"`
	Quantity            int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CashbackAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cashback_amount"`
	AffiliateUserID     *uint           `gorm:"index" json:"affiliate_user_id"`
	AffiliateLinkID     *uint           `gorm:"index" json:"affiliate_link_id"`
	AffiliateCommission decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"affiliate_commission"`
	Status              string          `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	DeliveryStatus      string          `gorm:"size:20;not null;index;default:'pending'" json:"delivery_status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Order) TableName() string { return "orders" }
