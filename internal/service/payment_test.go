package service

import (
	"testing"

	"edumart/internal/domain"
	"edumart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) createPackage(t *testing.T, price string) *models.Package {
	t.Helper()
	p := &models.Package{Name: "Starter", Price: dec(price), DurationDays: 30, IsActive: true}
	require.NoError(t, e.catalogRepo.CreatePackage(p))
	return p
}

func TestSubmitValidation(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "submit@example.com")
	pkg := e.createPackage(t, "999")

	_, err := e.payment.Submit(u.ID, "gift_card", dec("10"), nil, "txn-1")
	assert.True(t, domain.IsValidation(err))

	_, err = e.payment.Submit(u.ID, domain.PurposeWalletDeposit, dec("0"), nil, "txn-1")
	assert.True(t, domain.IsValidation(err))

	_, err = e.payment.Submit(u.ID, domain.PurposeWalletDeposit, dec("10"), &pkg.ID, "txn-1")
	assert.True(t, domain.IsValidation(err))

	_, err = e.payment.Submit(u.ID, domain.PurposePlanPurchase, dec("999"), nil, "txn-1")
	assert.True(t, domain.IsValidation(err))

	_, err = e.payment.Submit(u.ID, domain.PurposePlanPurchase, dec("500"), &pkg.ID, "txn-1")
	assert.True(t, domain.IsValidation(err), "amount must match the package price")

	p, err := e.payment.Submit(u.ID, domain.PurposePlanPurchase, dec("999"), &pkg.ID, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
}

func TestApproveDepositCreditsOnce(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "deposit@example.com")

	p, err := e.payment.Submit(u.ID, domain.PurposeWalletDeposit, dec("500"), nil, "txn-dep")
	require.NoError(t, err)

	approved, err := e.payment.Approve(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, approved.Status)
	assertDec(t, "500", e.wallet(t, u.ID))
	assert.EqualValues(t, 1, e.entryCount(t, u.ID))

	// The credit and the status flip land together.
	stored, err := e.paymentRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)

	// The status guard catches the ordinary double approval.
	_, err = e.payment.Approve(p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assertDec(t, "500", e.wallet(t, u.ID))
	assert.EqualValues(t, 1, e.entryCount(t, u.ID))
}

func TestRejectPaymentHasNoBalanceEffect(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "rejpay@example.com")

	p, err := e.payment.Submit(u.ID, domain.PurposeWalletDeposit, dec("500"), nil, "txn-rej")
	require.NoError(t, err)

	rejected, err := e.payment.Reject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, rejected.Status)
	assertDec(t, "0", e.wallet(t, u.ID))
	assert.EqualValues(t, 0, e.entryCount(t, u.ID))

	// A rejected payment cannot be approved afterwards.
	_, err = e.payment.Approve(p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestApprovePlanPurchase(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.settingRepo.Set(domain.SettingPlanReferralPercent, "10"))

	referrer := e.createUser(t, "referrer@example.com")
	buyer := &models.User{Name: "Buyer", Email: "planbuyer@example.com", Role: domain.RoleUser, ReferredBy: &referrer.ID}
	require.NoError(t, e.userRepo.Create(buyer))
	pkg := e.createPackage(t, "1000")

	p, err := e.payment.Submit(buyer.ID, domain.PurposePlanPurchase, dec("1000"), &pkg.ID, "txn-plan")
	require.NoError(t, err)
	_, err = e.payment.Approve(p.ID)
	require.NoError(t, err)

	reloaded, err := e.userRepo.GetByID(buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ActivePackageID)
	assert.Equal(t, pkg.ID, *reloaded.ActivePackageID)
	stored, err := e.paymentRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, stored.Status)

	// The buyer's wallet is untouched; the referrer earns 10% of the price.
	assertDec(t, "0", e.wallet(t, buyer.ID))
	assertDec(t, "100", e.wallet(t, referrer.ID))
	a, err := e.accountRepo.GetByUserID(referrer.ID)
	require.NoError(t, err)
	assertDec(t, "100", a.ReferralIncome)
}

func TestApprovePlanPurchaseWithoutReferrer(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.settingRepo.Set(domain.SettingPlanReferralPercent, "10"))

	buyer := e.createUser(t, "organic@example.com")
	pkg := e.createPackage(t, "1000")

	p, err := e.payment.Submit(buyer.ID, domain.PurposePlanPurchase, dec("1000"), &pkg.ID, "txn-org")
	require.NoError(t, err)
	_, err = e.payment.Approve(p.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 0, e.entryCount(t, buyer.ID))
}

func TestApprovePlanPurchaseWithoutConfiguredRate(t *testing.T) {
	e := newEnv(t)

	referrer := e.createUser(t, "norate-ref@example.com")
	buyer := &models.User{Name: "Buyer", Email: "norate@example.com", Role: domain.RoleUser, ReferredBy: &referrer.ID}
	require.NoError(t, e.userRepo.Create(buyer))
	pkg := e.createPackage(t, "1000")

	p, err := e.payment.Submit(buyer.ID, domain.PurposePlanPurchase, dec("1000"), &pkg.ID, "txn-nr")
	require.NoError(t, err)
	_, err = e.payment.Approve(p.ID)
	require.NoError(t, err)

	// No rate configured means no commission, not an error.
	assertDec(t, "0", e.wallet(t, referrer.ID))
	assert.EqualValues(t, 0, e.entryCount(t, referrer.ID))
}

// TestDepositOrderWithdrawalFlow walks a buyer through the full lifecycle:
// deposit, affiliate-referred purchase, delivery payouts, then a withdrawal.
func TestDepositOrderWithdrawalFlow(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "flow-buyer@example.com")
	affiliate := e.createUser(t, "flow-affiliate@example.com")
	product := e.createProduct(t, "1000", "20")
	link, err := e.affiliateRepo.GetOrCreate(affiliate.ID, product.ID, dec("30"), dec("0"))
	require.NoError(t, err)

	deposit, err := e.payment.Submit(buyer.ID, domain.PurposeWalletDeposit, dec("500"), nil, "txn-flow")
	require.NoError(t, err)
	_, err = e.payment.Approve(deposit.ID)
	require.NoError(t, err)
	assertDec(t, "500", e.wallet(t, buyer.ID))

	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 1, link.Code)
	require.NoError(t, err)

	res, err := e.fulfillment.UpdateOrder(order.ID, domain.OrderApproved, domain.DeliveryDelivered)
	require.NoError(t, err)
	require.NoError(t, res.CommissionErr)
	assert.True(t, res.CashbackReleased)
	assert.True(t, res.CommissionReleased)
	assertDec(t, "520", e.wallet(t, buyer.ID))
	assertDec(t, "30", e.wallet(t, affiliate.ID))

	w, err := e.withdrawal.Request(buyer.ID, dec("400"), `{"iban":"XX00"}`)
	require.NoError(t, err)
	receipt, err := e.withdrawal.Approve(w.ID)
	require.NoError(t, err)
	assertDec(t, "380", receipt.Payable)
	assertDec(t, "120", e.wallet(t, buyer.ID))

	// deposit credit, cashback credit, withdrawal debit
	assert.EqualValues(t, 3, e.entryCount(t, buyer.ID))
	entries, err := e.ledgerRepo.AllByUser(buyer.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.DirectionDebit, last.Status)
	assertDec(t, "400", last.Amount)
}
