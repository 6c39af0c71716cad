package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"edumart/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AffiliateRepository) WithTx(tx *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: tx}
}

func generateLinkCode() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil // 10 hex chars
}

// GetOrCreate returns the user's link for a product, creating one with the
// given commission rule when absent. (user_id, product_id) is unique.
func (r *AffiliateRepository) GetOrCreate(userID, productID uint, amount, percentage decimal.Decimal) (*models.AffiliateLink, error) {
	var l models.AffiliateLink
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&l).Error; err == nil {
		return &l, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateLinkCode()
		if err != nil {
			return nil, err
		}
		l = models.AffiliateLink{
			UserID:               userID,
			ProductID:            productID,
			Code:                 code,
			CommissionAmount:     amount,
			CommissionPercentage: percentage,
		}
		if err := r.db.Create(&l).Error; err == nil {
			return &l, nil
		}
		// Collision: retry with a new code
	}
	return nil, fmt.Errorf("failed to generate a unique affiliate code after retries")
}

func (r *AffiliateRepository) GetByID(id uint) (*models.AffiliateLink, error) {
	var l models.AffiliateLink
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *AffiliateRepository) GetByCode(code string) (*models.AffiliateLink, error) {
	var l models.AffiliateLink
	if err := r.db.Where("code = ?", code).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// RecordClick atomically bumps the click counter.
func (r *AffiliateRepository) RecordClick(id uint) error {
	return r.db.Model(&models.AffiliateLink{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error
}

// RecordConversion atomically bumps conversions and the commission total.
func (r *AffiliateRepository) RecordConversion(id uint, commission decimal.Decimal) error {
	return r.db.Model(&models.AffiliateLink{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"conversions":      gorm.Expr("conversions + 1"),
			"total_commission": gorm.Expr("total_commission + ?", commission),
		}).Error
}

func (r *AffiliateRepository) ListByUser(userID uint, limit, offset int) ([]models.AffiliateLink, error) {
	var list []models.AffiliateLink
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
