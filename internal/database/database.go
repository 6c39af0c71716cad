package database

import (
	"edumart/config"
	"edumart/internal/domain"
	"edumart/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // only log errors, not every query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.Product{},
		&models.Package{},
		&models.Order{},
		&models.Payment{},
		&models.AffiliateLink{},
		&models.WithdrawalRequest{},
		&models.SystemSetting{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the configured admin user if no admin exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		ReferralCode: "ADMIN",
	}
	return db.Create(&admin).Error
}
