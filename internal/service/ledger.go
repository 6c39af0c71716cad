package service

import (
	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"
	"edumart/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the only writer of financial facts. Every credit or debit
// goes through Append, which records the immutable ledger entry and applies
// the balance delta in one transaction. The (reference_id, reference_type)
// pair is checked before the insert and enforced by a unique index, so a
// repeated admin click or a retried call replays the existing entry instead
// of paying twice.
type LedgerService struct {
	db          *gorm.DB
	ledgerRepo  *repository.LedgerRepository
	accountRepo *repository.AccountRepository
}

func NewLedgerService(db *gorm.DB, ledgerRepo *repository.LedgerRepository, accountRepo *repository.AccountRepository) *LedgerService {
	return &LedgerService{db: db, ledgerRepo: ledgerRepo, accountRepo: accountRepo}
}

// AppendParams describes one credit or debit. ReferenceID may be nil only for
// manual adjustments, which are intentionally not idempotency-guarded.
type AppendParams struct {
	UserID        uint
	Amount        decimal.Decimal
	Direction     string // credit | debit
	Description   string
	IncomeType    string // optional category tag, credits only
	ReferenceID   *uint
	ReferenceType string
}

func (p *AppendParams) validate() error {
	if p.UserID == 0 {
		return domain.Validationf("user id is required")
	}
	if !p.Amount.IsPositive() {
		return domain.Validationf("amount must be positive, got %s", p.Amount)
	}
	if p.Direction != domain.DirectionCredit && p.Direction != domain.DirectionDebit {
		return domain.Validationf("invalid direction %q", p.Direction)
	}
	if p.ReferenceType == "" {
		return domain.Validationf("reference type is required")
	}
	return nil
}

// Append writes the entry and applies the balance delta atomically. The bool
// result reports whether a new effect was applied: false means the idempotency
// key was already present and the existing entry is returned, which callers
// treat as success with no new effect.
func (s *LedgerService) Append(p AppendParams) (*models.LedgerEntry, bool, error) {
	if err := p.validate(); err != nil {
		return nil, false, err
	}
	var entry *models.LedgerEntry
	applied := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, applied, txErr = s.appendTx(tx, p)
		return txErr
	})
	if err != nil {
		return nil, false, err
	}
	return entry, applied, nil
}

// AppendTx is Append running inside a caller-owned transaction, for operations
// that combine the ledger write with other state changes (withdrawal approval,
// payment approval).
func (s *LedgerService) AppendTx(tx *gorm.DB, p AppendParams) (*models.LedgerEntry, bool, error) {
	if err := p.validate(); err != nil {
		return nil, false, err
	}
	return s.appendTx(tx, p)
}

func (s *LedgerService) appendTx(tx *gorm.DB, p AppendParams) (*models.LedgerEntry, bool, error) {
	ledger := s.ledgerRepo.WithTx(tx)
	if p.ReferenceID != nil {
		if existing, err := ledger.FindByReference(*p.ReferenceID, p.ReferenceType); err == nil {
			return existing, false, nil
		}
	}
	entry := &models.LedgerEntry{
		UserID:        p.UserID,
		Amount:        p.Amount,
		Status:        p.Direction,
		Description:   p.Description,
		IncomeType:    p.IncomeType,
		ReferenceID:   p.ReferenceID,
		ReferenceType: p.ReferenceType,
	}
	if err := ledger.Create(entry); err != nil {
		// The unique index is the second line of defense: a concurrent
		// writer may have claimed the key between the pre-check and the
		// insert. Treat the conflict as a replay.
		if p.ReferenceID != nil {
			if existing, ferr := ledger.FindByReference(*p.ReferenceID, p.ReferenceType); ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	accounts := s.accountRepo.WithTx(tx)
	var applyErr error
	if p.Direction == domain.DirectionCredit {
		applyErr = accounts.ApplyCredit(p.UserID, p.Amount, p.IncomeType)
	} else {
		applyErr = accounts.ApplyDebit(p.UserID, p.Amount, p.IncomeType, p.ReferenceType == domain.ReferenceWithdrawal)
	}
	if applyErr != nil {
		// Rolling back takes the ledger row with it, so no half-applied
		// state survives. Were the store non-transactional, Rebuild
		// reconciles balances from the ledger.
		return nil, false, applyErr
	}
	return entry, true, nil
}

// Rebuild replays a user's ledger into their balances. The ledger is the
// source of truth; balances are a materialized view, and this is the
// reconciliation path when the two disagree.
func (s *LedgerService) Rebuild(userID uint) (*models.Account, error) {
	entries, err := s.ledgerRepo.AllByUser(userID)
	if err != nil {
		return nil, err
	}
	acct, err := s.accountRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	replayed := models.Account{UserID: userID}
	for _, e := range entries {
		switch e.Status {
		case domain.DirectionCredit:
			replayed.Wallet = replayed.Wallet.Add(e.Amount)
			replayed.TotalIncome = replayed.TotalIncome.Add(e.Amount)
			switch e.IncomeType {
			case domain.IncomeReferral:
				replayed.ReferralIncome = replayed.ReferralIncome.Add(e.Amount)
			case domain.IncomeLevel:
				replayed.LevelIncome = replayed.LevelIncome.Add(e.Amount)
			case domain.IncomeShare:
				replayed.ShareIncome = replayed.ShareIncome.Add(e.Amount)
			case domain.IncomeTask:
				replayed.TaskIncome = replayed.TaskIncome.Add(e.Amount)
			}
		case domain.DirectionDebit:
			replayed.Wallet = replayed.Wallet.Sub(e.Amount)
			switch e.IncomeType {
			case domain.IncomeReferral:
				replayed.ReferralIncome = replayed.ReferralIncome.Sub(e.Amount)
			case domain.IncomeLevel:
				replayed.LevelIncome = replayed.LevelIncome.Sub(e.Amount)
			case domain.IncomeShare:
				replayed.ShareIncome = replayed.ShareIncome.Sub(e.Amount)
			case domain.IncomeTask:
				replayed.TaskIncome = replayed.TaskIncome.Sub(e.Amount)
			}
			if e.ReferenceType == domain.ReferenceWithdrawal {
				replayed.WithdrawnAmount = replayed.WithdrawnAmount.Add(e.Amount)
			}
		}
	}
	if !replayed.Wallet.Equal(acct.Wallet) {
		logger.L().Warnf("ledger rebuild for user %d: stored wallet %s, replayed %s",
			userID, acct.Wallet, replayed.Wallet)
	}
	if err := s.accountRepo.Overwrite(&replayed); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByUserID(userID)
}

// History returns a page of a user's ledger, newest first.
func (s *LedgerService) History(userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	return s.ledgerRepo.ListByUser(userID, limit, offset)
}
