package service

import (
	"testing"

	"edumart/internal/database"
	"edumart/internal/domain"
	"edumart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeTestOrder creates an order with a cashback of 20 and, when an
// affiliate is given, a fixed commission of 30.
func placeTestOrder(t *testing.T, e *env, buyer *models.User, affiliate *models.User) *models.Order {
	t.Helper()
	product := e.createProduct(t, "1000", "20")
	code := ""
	if affiliate != nil {
		link, err := e.affiliateRepo.GetOrCreate(affiliate.ID, product.ID, dec("30"), dec("0"))
		require.NoError(t, err)
		code = link.Code
	}
	order, err := e.shop.PlaceOrder(buyer.ID, product.ID, 1, code)
	require.NoError(t, err)
	return order
}

func TestSingleReleaseOnDeliveredEdge(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "edge-buyer@example.com")
	affiliate := e.createUser(t, "edge-aff@example.com")
	order := placeTestOrder(t, e, buyer, affiliate)

	_, err := e.fulfillment.UpdateOrder(order.ID, domain.OrderApproved, "")
	require.NoError(t, err)

	// Intermediate stages release nothing.
	for _, stage := range []string{domain.DeliveryProcessing, domain.DeliveryShipped} {
		res, err := e.fulfillment.UpdateOrder(order.ID, "", stage)
		require.NoError(t, err)
		assert.False(t, res.CashbackReleased)
	}
	assert.EqualValues(t, 0, e.entryCount(t, buyer.ID))

	// The shipped → delivered edge fires both payouts.
	res, err := e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.True(t, res.CashbackReleased)
	assert.True(t, res.CommissionReleased)
	assert.NoError(t, res.CommissionErr)
	assertDec(t, "20", e.wallet(t, buyer.ID))
	assertDec(t, "30", e.wallet(t, affiliate.ID))

	// Re-saving delivered produces zero additional entries.
	res, err = e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.False(t, res.CashbackReleased)
	assert.EqualValues(t, 1, e.entryCount(t, buyer.ID))
	assert.EqualValues(t, 1, e.entryCount(t, affiliate.ID))
	assertDec(t, "20", e.wallet(t, buyer.ID))
	assertDec(t, "30", e.wallet(t, affiliate.ID))
}

func TestRejectionNeutrality(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "rej-buyer@example.com")
	affiliate := e.createUser(t, "rej-aff@example.com")
	order := placeTestOrder(t, e, buyer, affiliate)

	// Shipped while still pending review, then rejected.
	_, err := e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryShipped)
	require.NoError(t, err)
	_, err = e.fulfillment.UpdateOrder(order.ID, domain.OrderRejected, "")
	require.NoError(t, err)

	// Even a forced delivered transition on a rejected order releases nothing.
	res, err := e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.False(t, res.CashbackReleased)
	assert.False(t, res.CommissionReleased)
	assert.EqualValues(t, 0, e.entryCount(t, buyer.ID))
	assert.EqualValues(t, 0, e.entryCount(t, affiliate.ID))
}

func TestCommissionFailureKeepsCashback(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "pf-buyer@example.com")
	affiliate := e.createUser(t, "pf-aff@example.com")
	order := placeTestOrder(t, e, buyer, affiliate)

	_, err := e.fulfillment.UpdateOrder(order.ID, domain.OrderApproved, "")
	require.NoError(t, err)

	// Break the link table so the commission procedure fails mid-way.
	require.NoError(t, e.db.Migrator().DropTable(&models.AffiliateLink{}))

	res, err := e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.True(t, res.CashbackReleased)
	assert.False(t, res.CommissionReleased)
	require.Error(t, res.CommissionErr)

	// The applied half survives the failure.
	assertDec(t, "20", e.wallet(t, buyer.ID))
	assert.EqualValues(t, 1, e.entryCount(t, buyer.ID))

	// With the table back, re-submitting delivered retries the commission
	// sub-effect; the idempotency keys stop anything from paying twice.
	require.NoError(t, database.AutoMigrate(e.db))
	res, err = e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.NoError(t, res.CommissionErr)
	assert.EqualValues(t, 1, e.entryCount(t, buyer.ID))
	assert.EqualValues(t, 1, e.entryCount(t, affiliate.ID))
	assertDec(t, "30", e.wallet(t, affiliate.ID))
}

func TestStatusIsTerminal(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "term-buyer@example.com")
	order := placeTestOrder(t, e, buyer, nil)

	_, err := e.fulfillment.UpdateOrder(order.ID, domain.OrderApproved, "")
	require.NoError(t, err)

	_, err = e.fulfillment.UpdateOrder(order.ID, domain.OrderRejected, "")
	assert.True(t, domain.IsValidation(err), "approved is terminal, got %v", err)

	_, err = e.fulfillment.UpdateOrder(order.ID, domain.OrderPending, "")
	assert.True(t, domain.IsValidation(err), "no transition back to pending, got %v", err)
}

func TestDeliveryIsMonotonic(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "mono-buyer@example.com")
	order := placeTestOrder(t, e, buyer, nil)

	_, err := e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryShipped)
	require.NoError(t, err)

	_, err = e.fulfillment.UpdateOrder(order.ID, "", domain.DeliveryProcessing)
	assert.True(t, domain.IsValidation(err), "delivery status cannot move back, got %v", err)

	_, err = e.fulfillment.UpdateOrder(order.ID, "", "teleported")
	assert.True(t, domain.IsValidation(err))
}

func TestApproveAndDeliverInOneCall(t *testing.T) {
	e := newEnv(t)
	buyer := e.createUser(t, "combo-buyer@example.com")
	order := placeTestOrder(t, e, buyer, nil)

	res, err := e.fulfillment.UpdateOrder(order.ID, domain.OrderApproved, domain.DeliveryDelivered)
	require.NoError(t, err)
	assert.True(t, res.CashbackReleased)
	assertDec(t, "20", e.wallet(t, buyer.ID))
}

func TestUpdateOrderNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.fulfillment.UpdateOrder(12345, domain.OrderApproved, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
