package repository

import (
	"time"

	"edumart/internal/domain"
	"edumart/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *WithdrawalRepository) WithTx(tx *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: tx}
}

func (r *WithdrawalRepository) Create(w *models.WithdrawalRequest) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// MarkProcessed moves a pending request to a terminal status. The WHERE guard
// on the current status makes the transition race-safe: zero affected rows
// means another session already processed it.
func (r *WithdrawalRepository) MarkProcessed(id uint, status string, at time.Time) (bool, error) {
	res := r.db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, domain.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *WithdrawalRepository) ListByUser(userID uint, limit, offset int) ([]models.WithdrawalRequest, error) {
	var list []models.WithdrawalRequest
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) List(status string, limit, offset int) ([]models.WithdrawalRequest, error) {
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.WithdrawalRequest
	err := q.Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) CountPending() (int64, error) {
	var n int64
	err := r.db.Model(&models.WithdrawalRequest{}).
		Where("status = ?", domain.WithdrawalPending).Count(&n).Error
	return n, err
}
