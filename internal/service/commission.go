package service

import (
	"fmt"

	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// OrderEffects are the payout amounts computed once at order-creation time and
// stored on the order row, so later catalog or rate changes cannot alter an
// already-placed order's payout.
type OrderEffects struct {
	Cashback   decimal.Decimal
	Commission decimal.Decimal
}

// ComputeOrderEffects derives cashback and affiliate commission for a
// purchase. Cashback is fixed per unit. Commission from the link rule: a
// fixed amount strictly wins over a percentage; never both.
func ComputeOrderEffects(product *models.Product, link *models.AffiliateLink, unitPrice decimal.Decimal, quantity int) OrderEffects {
	qty := decimal.NewFromInt(int64(quantity))
	effects := OrderEffects{
		Cashback:   product.CashbackAmount.Mul(qty),
		Commission: decimal.Zero,
	}
	if link == nil {
		return effects
	}
	switch {
	case link.CommissionAmount.IsPositive():
		effects.Commission = link.CommissionAmount.Mul(qty)
	case link.CommissionPercentage.IsPositive():
		effects.Commission = unitPrice.Mul(qty).Mul(link.CommissionPercentage).Div(oneHundred)
	}
	return effects
}

// CommissionService releases the affiliate commission for delivered orders.
// ProcessOrderCommission is keyed by order id and idempotent, so the gate can
// retry it freely after a partial failure.
type CommissionService struct {
	orderRepo     *repository.OrderRepository
	affiliateRepo *repository.AffiliateRepository
	ledger        *LedgerService
}

func NewCommissionService(orderRepo *repository.OrderRepository, affiliateRepo *repository.AffiliateRepository, ledger *LedgerService) *CommissionService {
	return &CommissionService{orderRepo: orderRepo, affiliateRepo: affiliateRepo, ledger: ledger}
}

// ProcessOrderCommission credits the referring affiliate with the commission
// stored on the order and reports whether a new ledger entry was applied.
// No-op when the order has no affiliate or a zero commission; a replay for an
// already-paid order returns (false, nil). The conversion counters on the link
// are only bumped on a fresh application.
func (s *CommissionService) ProcessOrderCommission(orderID uint) (bool, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if order.AffiliateUserID == nil || !order.AffiliateCommission.IsPositive() {
		return false, nil
	}
	refID := order.ID
	_, applied, err := s.ledger.Append(AppendParams{
		UserID:        *order.AffiliateUserID,
		Amount:        order.AffiliateCommission,
		Direction:     domain.DirectionCredit,
		Description:   fmt.Sprintf("Affiliate commission for order #%d", order.ID),
		IncomeType:    domain.IncomeShare,
		ReferenceID:   &refID,
		ReferenceType: domain.ReferenceAffiliateCommission,
	})
	if err != nil {
		return false, fmt.Errorf("credit commission for order %d: %w", orderID, err)
	}
	if applied && order.AffiliateLinkID != nil {
		if err := s.affiliateRepo.RecordConversion(*order.AffiliateLinkID, order.AffiliateCommission); err != nil {
			// Counters are denormalized stats; the ledger already holds the fact.
			return applied, fmt.Errorf("record conversion for link %d: %w", *order.AffiliateLinkID, err)
		}
	}
	return applied, nil
}
