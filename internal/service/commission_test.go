package service

import (
	"testing"

	"edumart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOrderEffects(t *testing.T) {
	product := &models.Product{Price: dec("1000"), CashbackAmount: dec("20")}

	t.Run("fixed amount wins over percentage", func(t *testing.T) {
		link := &models.AffiliateLink{
			CommissionAmount:     dec("50"),
			CommissionPercentage: dec("10"),
		}
		effects := ComputeOrderEffects(product, link, dec("1000"), 2)
		assertDec(t, "100", effects.Commission) // 50 × 2, not 10% of 2000
		assertDec(t, "40", effects.Cashback)
	})

	t.Run("percentage when no fixed amount", func(t *testing.T) {
		link := &models.AffiliateLink{CommissionPercentage: dec("10")}
		effects := ComputeOrderEffects(product, link, dec("1000"), 2)
		assertDec(t, "200", effects.Commission)
	})

	t.Run("zero rule yields zero commission", func(t *testing.T) {
		link := &models.AffiliateLink{}
		effects := ComputeOrderEffects(product, link, dec("1000"), 3)
		assertDec(t, "0", effects.Commission)
		assertDec(t, "60", effects.Cashback)
	})

	t.Run("no link yields zero commission", func(t *testing.T) {
		effects := ComputeOrderEffects(product, nil, dec("1000"), 1)
		assertDec(t, "0", effects.Commission)
		assertDec(t, "20", effects.Cashback)
	})
}

func TestProcessOrderCommission(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "buyer@example.com")
	affiliate := e.createUser(t, "affiliate@example.com")
	product := e.createProduct(t, "1000", "20")

	link, err := e.affiliateRepo.GetOrCreate(affiliate.ID, product.ID, dec("30"), dec("0"))
	require.NoError(t, err)

	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 1, link.Code)
	require.NoError(t, err)
	assertDec(t, "30", order.AffiliateCommission)

	applied, err := e.commission.ProcessOrderCommission(order.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assertDec(t, "30", e.wallet(t, affiliate.ID))

	// Replaying the procedure is a no-op: one entry, one counter bump.
	applied, err = e.commission.ProcessOrderCommission(order.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.EqualValues(t, 1, e.entryCount(t, affiliate.ID))
	assertDec(t, "30", e.wallet(t, affiliate.ID))

	updated, err := e.affiliateRepo.GetByID(link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.Conversions)
	assertDec(t, "30", updated.TotalCommission)

	// The commission lands in the share income category.
	a, err := e.accountRepo.GetByUserID(affiliate.ID)
	require.NoError(t, err)
	assertDec(t, "30", a.ShareIncome)
}

func TestProcessOrderCommissionNoAffiliate(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "solo@example.com")
	product := e.createProduct(t, "500", "10")

	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 1, "")
	require.NoError(t, err)

	applied, err := e.commission.ProcessOrderCommission(order.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.EqualValues(t, 0, e.entryCount(t, buyer.ID))
}

func TestPlaceOrderIgnoresSelfReferral(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "self@example.com")
	product := e.createProduct(t, "500", "10")

	link, err := e.affiliateRepo.GetOrCreate(buyer.ID, product.ID, dec("25"), dec("0"))
	require.NoError(t, err)

	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 1, link.Code)
	require.NoError(t, err)
	assert.Nil(t, order.AffiliateUserID)
	assertDec(t, "0", order.AffiliateCommission)
}

func TestOrderSnapshotsPayouts(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "snap@example.com")
	affiliate := e.createUser(t, "snapref@example.com")
	product := e.createProduct(t, "100", "5")

	link, err := e.affiliateRepo.GetOrCreate(affiliate.ID, product.ID, dec("0"), dec("10"))
	require.NoError(t, err)

	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 2, link.Code)
	require.NoError(t, err)
	assertDec(t, "10", order.CashbackAmount)
	assertDec(t, "20", order.AffiliateCommission)

	// A later catalog change must not alter the placed order's payout.
	require.NoError(t, e.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("cashback_amount", dec("999")).Error)
	reloaded, err := e.orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assertDec(t, "10", reloaded.CashbackAmount)
}
