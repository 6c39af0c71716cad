package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"edumart/internal/database"
	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// env bundles the repositories and services under test.
type env struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	accountRepo    *repository.AccountRepository
	ledgerRepo     *repository.LedgerRepository
	orderRepo      *repository.OrderRepository
	paymentRepo    *repository.PaymentRepository
	catalogRepo    *repository.CatalogRepository
	affiliateRepo  *repository.AffiliateRepository
	withdrawalRepo *repository.WithdrawalRepository
	settingRepo    *repository.SettingRepository
	ledger         *LedgerService
	commission     *CommissionService
	fulfillment    *FulfillmentService
	shop           *ShopService
	payment        *PaymentService
	withdrawal     *WithdrawalService
}

func newEnv(t *testing.T) *env {
	db := newTestDB(t)
	e := &env{
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		accountRepo:    repository.NewAccountRepository(db),
		ledgerRepo:     repository.NewLedgerRepository(db),
		orderRepo:      repository.NewOrderRepository(db),
		paymentRepo:    repository.NewPaymentRepository(db),
		catalogRepo:    repository.NewCatalogRepository(db),
		affiliateRepo:  repository.NewAffiliateRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		settingRepo:    repository.NewSettingRepository(db),
	}
	e.ledger = NewLedgerService(db, e.ledgerRepo, e.accountRepo)
	e.commission = NewCommissionService(e.orderRepo, e.affiliateRepo, e.ledger)
	e.fulfillment = NewFulfillmentService(e.orderRepo, e.ledger, e.commission)
	e.shop = NewShopService(e.orderRepo, e.catalogRepo, e.affiliateRepo)
	e.payment = NewPaymentService(db, e.paymentRepo, e.userRepo, e.catalogRepo, e.settingRepo, e.ledger)
	e.withdrawal = NewWithdrawalService(db, e.withdrawalRepo, e.accountRepo, e.userRepo, e.ledger)
	return e
}

func (e *env) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test User", Email: email, Role: domain.RoleUser}
	require.NoError(t, e.userRepo.Create(u))
	return u
}

func (e *env) createProduct(t *testing.T, price, cashback string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:           "Widget",
		Price:          dec(price),
		CashbackAmount: dec(cashback),
		IsActive:       true,
	}
	require.NoError(t, e.catalogRepo.CreateProduct(p))
	return p
}

// credit funds a wallet through the ledger, as a deposit would.
func (e *env) credit(t *testing.T, userID uint, amount string, refID uint) {
	t.Helper()
	_, applied, err := e.ledger.Append(AppendParams{
		UserID:        userID,
		Amount:        dec(amount),
		Direction:     domain.DirectionCredit,
		Description:   "test deposit",
		ReferenceID:   &refID,
		ReferenceType: domain.ReferenceDeposit,
	})
	require.NoError(t, err)
	require.True(t, applied)
}

func (e *env) wallet(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	a, err := e.accountRepo.GetOrCreate(userID)
	require.NoError(t, err)
	return a.Wallet
}

func (e *env) entryCount(t *testing.T, userID uint) int64 {
	t.Helper()
	n, err := e.ledgerRepo.CountByUser(userID)
	require.NoError(t, err)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDec fails unless got equals the decimal literal want.
func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}
