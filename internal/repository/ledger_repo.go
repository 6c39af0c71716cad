package repository

import (
	"edumart/internal/models"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

func (r *LedgerRepository) Create(e *models.LedgerEntry) error {
	return r.db.Create(e).Error
}

// FindByReference returns the entry holding the (referenceID, referenceType)
// idempotency key, if any.
func (r *LedgerRepository) FindByReference(referenceID uint, referenceType string) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := r.db.Where("reference_id = ? AND reference_type = ?", referenceID, referenceType).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LedgerRepository) ListByUser(userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	var list []models.LedgerEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// AllByUser returns every entry for a user in insertion order, for replay.
func (r *LedgerRepository) AllByUser(userID uint) ([]models.LedgerEntry, error) {
	var list []models.LedgerEntry
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *LedgerRepository) List(limit, offset int) ([]models.LedgerEntry, error) {
	var list []models.LedgerEntry
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *LedgerRepository) CountByUser(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
