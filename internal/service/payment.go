package service

import (
	"fmt"
	"time"

	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"
	"edumart/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService reviews user-submitted payments. The purpose enum is handled
// exhaustively: a wallet deposit credits the buyer, a plan purchase activates
// the package and pays the referrer's commission from the configured rate.
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	catalogRepo *repository.CatalogRepository
	settingRepo *repository.SettingRepository
	ledger      *LedgerService
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	catalogRepo *repository.CatalogRepository,
	settingRepo *repository.SettingRepository,
	ledger *LedgerService,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		settingRepo: settingRepo,
		ledger:      ledger,
	}
}

// Submit records a pending payment for admin review.
func (s *PaymentService) Submit(userID uint, purpose string, amount decimal.Decimal, packageID *uint, reference string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, domain.Validationf("amount must be positive")
	}
	switch purpose {
	case domain.PurposeWalletDeposit:
		if packageID != nil {
			return nil, domain.Validationf("wallet deposit must not name a package")
		}
	case domain.PurposePlanPurchase:
		if packageID == nil {
			return nil, domain.Validationf("plan purchase requires a package")
		}
		pkg, err := s.catalogRepo.GetPackage(*packageID)
		if err != nil {
			return nil, domain.ErrNotFound
		}
		if !amount.Equal(pkg.Price) {
			return nil, domain.Validationf("amount %s does not match package price %s",
				amount.StringFixed(2), pkg.Price.StringFixed(2))
		}
	default:
		return nil, domain.Validationf("invalid payment purpose %q", purpose)
	}
	p := &models.Payment{
		UserID:    userID,
		Purpose:   purpose,
		Amount:    amount,
		PackageID: packageID,
		Reference: reference,
		Status:    domain.PaymentPending,
	}
	if err := s.paymentRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Approve fires the payment's financial effect. The ledger idempotency key
// (payment id + reference type) keeps a double approval from crediting twice
// even if the status guard is raced.
func (s *PaymentService) Approve(paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment %d: %w", paymentID, domain.ErrNotFound)
		}
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, fmt.Errorf("payment %d is %s: %w", paymentID, payment.Status, domain.ErrAlreadyProcessed)
	}

	switch payment.Purpose {
	case domain.PurposeWalletDeposit:
		err = s.approveDeposit(payment)
	case domain.PurposePlanPurchase:
		err = s.approvePlanPurchase(payment)
	default:
		return nil, domain.Validationf("payment %d has unknown purpose %q", payment.ID, payment.Purpose)
	}
	if err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentApproved
	return payment, nil
}

func (s *PaymentService) approveDeposit(payment *models.Payment) error {
	refID := payment.ID
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, _, err := s.ledger.AppendTx(tx, AppendParams{
			UserID:        payment.UserID,
			Amount:        payment.Amount,
			Direction:     domain.DirectionCredit,
			Description:   fmt.Sprintf("Wallet deposit #%d", payment.ID),
			ReferenceID:   &refID,
			ReferenceType: domain.ReferenceDeposit,
		}); err != nil {
			return err
		}
		return s.paymentRepo.WithTx(tx).MarkApproved(payment.ID, time.Now())
	})
}

func (s *PaymentService) approvePlanPurchase(payment *models.Payment) error {
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).MarkApproved(payment.ID, time.Now()); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).SetActivePackage(payment.UserID, *payment.PackageID)
	}); err != nil {
		return err
	}

	// Referral commission on plan purchases is an independent sub-effect:
	// its failure is logged and the activation stands.
	if err := s.payPlanReferralCommission(payment); err != nil {
		logger.L().WithError(err).Warnf("payment %d approved: plan referral commission failed", payment.ID)
	}
	return nil
}

func (s *PaymentService) payPlanReferralCommission(payment *models.Payment) error {
	buyer, err := s.userRepo.GetByID(payment.UserID)
	if err != nil || buyer.ReferredBy == nil {
		return err
	}
	percent := s.settingDecimal(domain.SettingPlanReferralPercent, decimal.Zero)
	if !percent.IsPositive() {
		return nil
	}
	commission := payment.Amount.Mul(percent).Div(oneHundred)
	refID := payment.ID
	_, _, err = s.ledger.Append(AppendParams{
		UserID:        *buyer.ReferredBy,
		Amount:        commission,
		Direction:     domain.DirectionCredit,
		Description:   fmt.Sprintf("Referral commission for plan purchase #%d", payment.ID),
		IncomeType:    domain.IncomeReferral,
		ReferenceID:   &refID,
		ReferenceType: domain.ReferencePlanPurchase,
	})
	return err
}

// Reject marks a pending payment rejected. No balance effect, ever.
func (s *PaymentService) Reject(paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment %d: %w", paymentID, domain.ErrNotFound)
		}
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, fmt.Errorf("payment %d is %s: %w", paymentID, payment.Status, domain.ErrAlreadyProcessed)
	}
	if err := s.paymentRepo.MarkRejected(payment.ID); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentRejected
	return payment, nil
}

func (s *PaymentService) settingDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	val, err := s.settingRepo.Get(key)
	if err != nil || val == "" {
		return fallback
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return fallback
	}
	return d
}
