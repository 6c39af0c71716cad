package service

import (
	"fmt"

	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"
	"edumart/pkg/logger"

	"gorm.io/gorm"
)

// FulfillmentService is the state-transition gate for orders. It owns the two
// status axes and releases the stored cashback and commission amounts when an
// approved order reaches delivered. The idempotency keys on both payouts make
// the release safe to re-run, so each is paid exactly once.
type FulfillmentService struct {
	orderRepo  *repository.OrderRepository
	ledger     *LedgerService
	commission *CommissionService
}

func NewFulfillmentService(orderRepo *repository.OrderRepository, ledger *LedgerService, commission *CommissionService) *FulfillmentService {
	return &FulfillmentService{orderRepo: orderRepo, ledger: ledger, commission: commission}
}

// TransitionResult reports what an order update did. CommissionErr carries the
// partial-failure case: cashback applied but the commission procedure failed.
// The successful half is never rolled back.
type TransitionResult struct {
	Order              *models.Order
	CashbackReleased   bool
	CommissionReleased bool
	CommissionErr      error
}

// UpdateOrder applies an admin's status and/or delivery-status change. Empty
// strings keep the current value. Review status is terminal once approved or
// rejected; delivery status may only advance.
func (s *FulfillmentService) UpdateOrder(orderID uint, newStatus, newDelivery string) (*TransitionResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
		}
		return nil, err
	}

	finalStatus := order.Status
	if newStatus != "" && newStatus != order.Status {
		if order.Status != domain.OrderPending {
			return nil, domain.Validationf("order %d is %s; status is terminal", orderID, order.Status)
		}
		if newStatus != domain.OrderApproved && newStatus != domain.OrderRejected {
			return nil, domain.Validationf("invalid order status %q", newStatus)
		}
		finalStatus = newStatus
	}

	finalDelivery := order.DeliveryStatus
	if newDelivery != "" {
		newRank, ok := domain.DeliveryRank[newDelivery]
		if !ok {
			return nil, domain.Validationf("invalid delivery status %q", newDelivery)
		}
		if newRank < domain.DeliveryRank[order.DeliveryStatus] {
			return nil, domain.Validationf("delivery status cannot move back from %s to %s",
				order.DeliveryStatus, newDelivery)
		}
		finalDelivery = newDelivery
	}

	if err := s.orderRepo.UpdateStatuses(orderID, finalStatus, finalDelivery); err != nil {
		return nil, err
	}
	order.Status = finalStatus
	order.DeliveryStatus = finalDelivery

	result := &TransitionResult{Order: order}

	// Release rule: delivered while approved. Both sub-effects are keyed on
	// the order id, so re-submitting "delivered" replays them without paying
	// twice; that replay is also the recovery path after a partial failure.
	// A rejected order never releases funds from any delivery state.
	if finalDelivery != domain.DeliveryDelivered || finalStatus != domain.OrderApproved {
		return result, nil
	}

	if order.CashbackAmount.IsPositive() {
		refID := order.ID
		_, applied, err := s.ledger.Append(AppendParams{
			UserID:        order.UserID,
			Amount:        order.CashbackAmount,
			Direction:     domain.DirectionCredit,
			Description:   fmt.Sprintf("Cashback for order #%d", order.ID),
			ReferenceID:   &refID,
			ReferenceType: domain.ReferenceShoppingCashback,
		})
		if err != nil {
			return nil, err
		}
		result.CashbackReleased = applied
	}

	// The commission procedure is an independent sub-effect: its failure is
	// reported alongside the cashback outcome, never rolled into it.
	applied, err := s.commission.ProcessOrderCommission(order.ID)
	if err != nil {
		logger.L().WithError(err).Warnf("order %d delivered: commission release failed", order.ID)
		result.CommissionErr = err
		return result, nil
	}
	result.CommissionReleased = applied
	return result, nil
}
