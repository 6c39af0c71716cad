package repository

import (
	"edumart/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetProduct(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) ListProducts(limit, offset int) ([]models.Product, error) {
	var list []models.Product
	err := r.db.Where("is_active = ?", true).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CatalogRepository) CreateProduct(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *CatalogRepository) GetPackage(id uint) (*models.Package, error) {
	var p models.Package
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) ListPackages() ([]models.Package, error) {
	var list []models.Package
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) CreatePackage(p *models.Package) error {
	return r.db.Create(p).Error
}
