package service

import (
	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShopService places orders. Payout amounts are snapshotted onto the order
// here; nothing downstream recomputes them.
type ShopService struct {
	orderRepo     *repository.OrderRepository
	catalogRepo   *repository.CatalogRepository
	affiliateRepo *repository.AffiliateRepository
}

func NewShopService(orderRepo *repository.OrderRepository, catalogRepo *repository.CatalogRepository, affiliateRepo *repository.AffiliateRepository) *ShopService {
	return &ShopService{orderRepo: orderRepo, catalogRepo: catalogRepo, affiliateRepo: affiliateRepo}
}

// PlaceOrder creates a pending order for the product. When affiliateCode names
// a valid link owned by someone other than the buyer, the commission computed
// from that link's rule is stored on the order for release at delivery.
func (s *ShopService) PlaceOrder(userID, productID uint, quantity int, affiliateCode string) (*models.Order, error) {
	if quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	product, err := s.catalogRepo.GetProduct(productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.Validationf("product %d is not available", productID)
	}

	var link *models.AffiliateLink
	if affiliateCode != "" {
		if l, err := s.affiliateRepo.GetByCode(affiliateCode); err == nil && l.UserID != userID && l.ProductID == productID {
			link = l
		}
		// An unknown or self-referential code places the order without commission.
	}

	effects := ComputeOrderEffects(product, link, product.Price, quantity)
	order := &models.Order{
		UserID:              userID,
		ProductID:           productID,
		Quantity:            quantity,
		UnitPrice:           product.Price,
		TotalAmount:         product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		CashbackAmount:      effects.Cashback,
		AffiliateCommission: effects.Commission,
		Status:              domain.OrderPending,
		DeliveryStatus:      domain.DeliveryPending,
	}
	if link != nil {
		order.AffiliateUserID = &link.UserID
		order.AffiliateLinkID = &link.ID
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}
