package repository

import (
	"edumart/internal/domain"
	"edumart/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

func (r *AccountRepository) GetByUserID(userID uint) (*models.Account, error) {
	var a models.Account
	if err := r.db.Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetOrCreate lazily creates the account on first touch.
func (r *AccountRepository) GetOrCreate(userID uint) (*models.Account, error) {
	a, err := r.GetByUserID(userID)
	if err == nil {
		return a, nil
	}
	a = &models.Account{UserID: userID}
	if err := r.db.Create(a).Error; err != nil {
		// Lost a create race: the row exists now.
		if existing, gerr := r.GetByUserID(userID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return a, nil
}

// ApplyCredit adds amount to the wallet, the lifetime income counter and, when
// incomeType names a category, that category column. A single relative UPDATE
// so concurrent admin sessions cannot lose updates.
func (r *AccountRepository) ApplyCredit(userID uint, amount decimal.Decimal, incomeType string) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	cols := map[string]interface{}{
		"wallet":       gorm.Expr("wallet + ?", amount),
		"total_income": gorm.Expr("total_income + ?", amount),
	}
	if col, ok := domain.IncomeColumns[incomeType]; ok {
		cols[col] = gorm.Expr(col+" + ?", amount)
	}
	return r.db.Model(&models.Account{}).Where("user_id = ?", userID).
		UpdateColumns(cols).Error
}

// ApplyDebit subtracts amount from the wallet, guarded so the wallet can never
// go negative: the WHERE clause is the compare-and-swap and zero affected rows
// means insufficient balance. When incomeType names a category its column is
// decremented too, mirroring ApplyCredit. Withdrawal debits also bump the
// lifetime withdrawn counter.
func (r *AccountRepository) ApplyDebit(userID uint, amount decimal.Decimal, incomeType string, withdrawal bool) error {
	cols := map[string]interface{}{
		"wallet": gorm.Expr("wallet - ?", amount),
	}
	if col, ok := domain.IncomeColumns[incomeType]; ok {
		cols[col] = gorm.Expr(col+" - ?", amount)
	}
	if withdrawal {
		cols["withdrawn_amount"] = gorm.Expr("withdrawn_amount + ?", amount)
	}
	res := r.db.Model(&models.Account{}).
		Where("user_id = ? AND wallet >= ?", userID, amount).
		UpdateColumns(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		balance := decimal.Zero
		if a, err := r.GetByUserID(userID); err == nil {
			balance = a.Wallet
		}
		return &domain.InsufficientBalanceError{Balance: balance, Requested: amount}
	}
	return nil
}

// Overwrite replaces all balance columns. Only the ledger replay may call
// this; everything else must go through the relative Apply* updates.
func (r *AccountRepository) Overwrite(a *models.Account) error {
	return r.db.Model(&models.Account{}).Where("user_id = ?", a.UserID).
		UpdateColumns(map[string]interface{}{
			"wallet":           a.Wallet,
			"referral_income":  a.ReferralIncome,
			"level_income":     a.LevelIncome,
			"share_income":     a.ShareIncome,
			"task_income":      a.TaskIncome,
			"total_income":     a.TotalIncome,
			"withdrawn_amount": a.WithdrawnAmount,
		}).Error
}
