package service

import (
	"fmt"
	"time"

	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawalService settles withdrawal requests and hosts the admin
// manual-adjustment tool. The balance check happens at approval time; the
// gross requested amount is debited and the 5% platform fee only shapes the
// payable figure on the receipt.
type WithdrawalService struct {
	db             *gorm.DB
	withdrawalRepo *repository.WithdrawalRepository
	accountRepo    *repository.AccountRepository
	userRepo       *repository.UserRepository
	ledger         *LedgerService
}

func NewWithdrawalService(
	db *gorm.DB,
	withdrawalRepo *repository.WithdrawalRepository,
	accountRepo *repository.AccountRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
) *WithdrawalService {
	return &WithdrawalService{
		db:             db,
		withdrawalRepo: withdrawalRepo,
		accountRepo:    accountRepo,
		userRepo:       userRepo,
		ledger:         ledger,
	}
}

// Request records a pending withdrawal. The wallet is not checked here; the
// balance that matters is the one at approval time.
func (s *WithdrawalService) Request(userID uint, amount decimal.Decimal, bankDetails string) (*models.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, domain.Validationf("withdrawal amount must be positive")
	}
	if bankDetails == "" {
		return nil, domain.Validationf("bank details are required")
	}
	w := &models.WithdrawalRequest{
		UserID:      userID,
		OrderRef:    fmt.Sprintf("wd-%s", uuid.New().String()),
		Amount:      amount,
		BankDetails: bankDetails,
		Status:      domain.WithdrawalPending,
	}
	if err := s.withdrawalRepo.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

// Receipt is returned to the admin UI on approval. Payable is informational:
// the ledger debit is the gross Amount, the fee is retained, not paid out and
// not ledgered.
type Receipt struct {
	Request *models.WithdrawalRequest
	Amount  decimal.Decimal
	Payable decimal.Decimal
}

// Approve settles a pending request: verify the wallet covers the gross
// amount, debit it, mark the request approved. All three run in one
// transaction, and the debit itself is a guarded relative update, so two
// admins racing on approvals cannot jointly overdraw the wallet.
func (s *WithdrawalService) Approve(requestID uint) (*Receipt, error) {
	w, err := s.withdrawalRepo.GetByID(requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("withdrawal %d: %w", requestID, domain.ErrNotFound)
		}
		return nil, err
	}
	if w.Status != domain.WithdrawalPending {
		return nil, fmt.Errorf("withdrawal %d is %s: %w", requestID, w.Status, domain.ErrAlreadyProcessed)
	}

	refID := w.ID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.withdrawalRepo.WithTx(tx).MarkProcessed(w.ID, domain.WithdrawalApproved, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("withdrawal %d: %w", requestID, domain.ErrAlreadyProcessed)
		}
		_, _, err = s.ledger.AppendTx(tx, AppendParams{
			UserID:        w.UserID,
			Amount:        w.Amount,
			Direction:     domain.DirectionDebit,
			Description:   fmt.Sprintf("Withdrawal %s", w.OrderRef),
			ReferenceID:   &refID,
			ReferenceType: domain.ReferenceWithdrawal,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	w.Status = domain.WithdrawalApproved
	return &Receipt{
		Request: w,
		Amount:  w.Amount,
		Payable: w.Amount.Mul(decimal.NewFromInt(1).Sub(domain.WithdrawalFeeRate)),
	}, nil
}

// Reject marks a pending request rejected. Rejecting an already-processed
// request is an error, not a silent success.
func (s *WithdrawalService) Reject(requestID uint) (*models.WithdrawalRequest, error) {
	w, err := s.withdrawalRepo.GetByID(requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("withdrawal %d: %w", requestID, domain.ErrNotFound)
		}
		return nil, err
	}
	if w.Status != domain.WithdrawalPending {
		return nil, fmt.Errorf("withdrawal %d is %s: %w", requestID, w.Status, domain.ErrAlreadyProcessed)
	}
	ok, err := s.withdrawalRepo.MarkProcessed(w.ID, domain.WithdrawalRejected, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("withdrawal %d: %w", requestID, domain.ErrAlreadyProcessed)
	}
	w.Status = domain.WithdrawalRejected
	return w, nil
}

// AdjustableColumns are the balance columns the manual tool may target.
// Adjustments to an income category also move the wallet, since categories
// are annotations over the single spendable pool.
var AdjustableColumns = map[string]string{
	"wallet":          "",
	"referral_income": domain.IncomeReferral,
	"level_income":    domain.IncomeLevel,
	"share_income":    domain.IncomeShare,
	"task_income":     domain.IncomeTask,
}

// ManualAdjust resolves the target user by email, referral code or user id and
// applies a signed delta to the named balance column. Each invocation is a
// distinct ledger event with no reference id, so repeats apply again.
func (s *WithdrawalService) ManualAdjust(lookupKey, column string, delta decimal.Decimal, note string) (*models.LedgerEntry, error) {
	if lookupKey == "" {
		return nil, domain.Validationf("user lookup key is required")
	}
	incomeType, ok := AdjustableColumns[column]
	if !ok {
		return nil, domain.Validationf("invalid balance column %q", column)
	}
	if delta.IsZero() {
		return nil, domain.Validationf("adjustment delta must be non-zero")
	}
	user, err := s.userRepo.Resolve(lookupKey)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", lookupKey, domain.ErrNotFound)
	}

	direction := domain.DirectionCredit
	amount := delta
	if delta.IsNegative() {
		direction = domain.DirectionDebit
		amount = delta.Neg()
	}
	if note == "" {
		note = fmt.Sprintf("Manual %s adjustment by admin", column)
	}
	entry, _, err := s.ledger.Append(AppendParams{
		UserID:        user.ID,
		Amount:        amount,
		Direction:     direction,
		Description:   note,
		IncomeType:    incomeType,
		ReferenceType: domain.ReferenceManualAdjustment,
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
