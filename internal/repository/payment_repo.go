package repository

import (
	"time"

	"edumart/internal/domain"
	"edumart/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) MarkApproved(id uint, at time.Time) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.PaymentApproved,
			"approved_at": at,
		}).Error
}

func (r *PaymentRepository) MarkRejected(id uint) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("status", domain.PaymentRejected).Error
}

func (r *PaymentRepository) List(status string, limit, offset int) ([]models.Payment, error) {
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Payment
	err := q.Find(&list).Error
	return list, err
}

func (r *PaymentRepository) CountPending() (int64, error) {
	var n int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", domain.PaymentPending).Count(&n).Error
	return n, err
}
