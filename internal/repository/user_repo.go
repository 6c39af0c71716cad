package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"edumart/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// generateReferralCode returns an 8-character uppercase hex code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// Create persists a user, assigning a unique referral code.
func (r *UserRepository) Create(u *models.User) error {
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return err
		}
		u.ReferralCode = code
		if err := r.db.Create(u).Error; err == nil {
			return nil
		} else if !strings.Contains(strings.ToLower(err.Error()), "referral_code") &&
			!strings.Contains(strings.ToLower(err.Error()), "unique") {
			return err
		}
		// Code collision: retry with a new one
	}
	return fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("referral_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Resolve finds a user by email, then referral code, then numeric id; first
// match wins. Used by the admin manual-adjustment tool.
func (r *UserRepository) Resolve(key string) (*models.User, error) {
	if u, err := r.GetByEmail(key); err == nil {
		return u, nil
	}
	if u, err := r.GetByReferralCode(key); err == nil {
		return u, nil
	}
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return r.GetByID(uint(id))
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) SetActivePackage(userID uint, packageID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("active_package_id", packageID).Error
}

func (r *UserRepository) List(limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
