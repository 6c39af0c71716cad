package repository

import (
	"edumart/internal/domain"
	"edumart/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatuses persists the review and delivery states in one write.
func (r *OrderRepository) UpdateStatuses(id uint, status, deliveryStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"delivery_status": deliveryStatus,
		}).Error
}

func (r *OrderRepository) ListByUser(userID uint, limit, offset int) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *OrderRepository) List(status string, limit, offset int) ([]models.Order, error) {
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Order
	err := q.Find(&list).Error
	return list, err
}

func (r *OrderRepository) CountPending() (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("status = ?", domain.OrderPending).Count(&n).Error
	return n, err
}
