package domain

import "github.com/shopspring/decimal"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Order payment/review state. Terminal once approved or rejected.
const (
	OrderPending  = "pending"
	OrderApproved = "approved"
	OrderRejected = "rejected"
)

// Order fulfillment state. Advances monotonically to delivered.
const (
	DeliveryPending        = "pending"
	DeliveryProcessing     = "processing"
	DeliveryShipped        = "shipped"
	DeliveryOutForDelivery = "out_for_delivery"
	DeliveryDelivered      = "delivered"
)

// DeliveryRank orders fulfillment states; an update may never lower the rank.
var DeliveryRank = map[string]int{
	DeliveryPending:        0,
	DeliveryProcessing:     1,
	DeliveryShipped:        2,
	DeliveryOutForDelivery: 3,
	DeliveryDelivered:      4,
}

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Ledger reference types. Together with a reference id they form the
// idempotency key for a financial effect.
const (
	ReferenceDeposit             = "deposit"
	ReferenceShoppingCashback    = "shopping_cashback"
	ReferenceAffiliateCommission = "affiliate_commission"
	ReferenceWithdrawal          = "withdrawal"
	ReferenceManualAdjustment    = "manual_adjustment"
	ReferencePlanPurchase        = "plan_purchase"
)

// Income category tags. Each maps to an informational subtotal column on the
// account; the spendable pool is always the wallet.
const (
	IncomeReferral = "referral_income"
	IncomeLevel    = "level_income"
	IncomeShare    = "share_income"
	IncomeTask     = "task_income"
)

// IncomeColumns maps an income tag to its account column.
var IncomeColumns = map[string]string{
	IncomeReferral: "referral_income",
	IncomeLevel:    "level_income",
	IncomeShare:    "share_income",
	IncomeTask:     "task_income",
}

// Payment purpose. Replaces the ad-hoc item.type tag with a closed enum.
const (
	PurposeWalletDeposit = "wallet_deposit"
	PurposePlanPurchase  = "plan_purchase"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// WithdrawalFeeRate is the flat platform fee retained on withdrawal. The fee
// is informational only: the gross amount is debited and the fee is not
// recorded as a separate ledger entry (pending product decision).
var WithdrawalFeeRate = decimal.NewFromFloat(0.05)

// System setting keys.
const (
	SettingPlanReferralPercent = "referral_plan_commission_percent"
)
