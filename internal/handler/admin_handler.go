package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"edumart/internal/middleware"
	"edumart/internal/models"
	"edumart/internal/repository"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler exposes the approval surface: the order fulfillment gate,
// payment and withdrawal review, the manual adjustment tool and the read-only
// dashboard queries. Every state change is audited fire-and-forget.
type AdminHandler struct {
	fulfillmentSvc *service.FulfillmentService
	paymentSvc     *service.PaymentService
	withdrawalSvc  *service.WithdrawalService
	ledgerSvc      *service.LedgerService
	auditSvc       *service.AuditService
	orderRepo      *repository.OrderRepository
	paymentRepo    *repository.PaymentRepository
	withdrawalRepo *repository.WithdrawalRepository
	ledgerRepo     *repository.LedgerRepository
	settingRepo    *repository.SettingRepository
	catalogRepo    *repository.CatalogRepository
	userRepo       *repository.UserRepository
}

func NewAdminHandler(
	fulfillmentSvc *service.FulfillmentService,
	paymentSvc *service.PaymentService,
	withdrawalSvc *service.WithdrawalService,
	ledgerSvc *service.LedgerService,
	auditSvc *service.AuditService,
	orderRepo *repository.OrderRepository,
	paymentRepo *repository.PaymentRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	ledgerRepo *repository.LedgerRepository,
	settingRepo *repository.SettingRepository,
	catalogRepo *repository.CatalogRepository,
	userRepo *repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		fulfillmentSvc: fulfillmentSvc,
		paymentSvc:     paymentSvc,
		withdrawalSvc:  withdrawalSvc,
		ledgerSvc:      ledgerSvc,
		auditSvc:       auditSvc,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		withdrawalRepo: withdrawalRepo,
		ledgerRepo:     ledgerRepo,
		settingRepo:    settingRepo,
		catalogRepo:    catalogRepo,
		userRepo:       userRepo,
	}
}

func (h *AdminHandler) actor(c *gin.Context) *uint {
	id := middleware.GetUserID(c)
	if id == 0 {
		return nil
	}
	return &id
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// UpdateOrder handles PUT /admin/orders/:id/status: the state-transition
// gate. A partial failure (cashback applied, commission failed) comes back as
// two outcomes in one 200 reply.
func (h *AdminHandler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status         string `json:"status"`
		DeliveryStatus string `json:"delivery_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" && req.DeliveryStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	result, err := h.fulfillmentSvc.UpdateOrder(id, req.Status, req.DeliveryStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "order.update_status", "order", id,
		fmt.Sprintf("status=%s delivery=%s cashback=%t commission=%t",
			result.Order.Status, result.Order.DeliveryStatus,
			result.CashbackReleased, result.CommissionReleased), c.ClientIP())

	resp := gin.H{
		"order":               result.Order,
		"cashback_released":   result.CashbackReleased,
		"commission_released": result.CommissionReleased,
	}
	if result.CommissionErr != nil {
		resp["commission_error"] = "commission release failed; cashback kept, retry the transition"
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders handles GET /admin/orders?status=pending.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.orderRepo.List(c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// ApprovePayment handles POST /admin/payments/:id/approve.
func (h *AdminHandler) ApprovePayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.paymentSvc.Approve(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "payment.approve", "payment", id,
		fmt.Sprintf("purpose=%s amount=%s", p.Purpose, p.Amount.StringFixed(2)), c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// RejectPayment handles POST /admin/payments/:id/reject.
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.paymentSvc.Reject(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "payment.reject", "payment", id, "", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// ListPayments handles GET /admin/payments?status=pending.
func (h *AdminHandler) ListPayments(c *gin.Context) {
	limit, offset := pagination(c)
	payments, err := h.paymentRepo.List(c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ApproveWithdrawal handles POST /admin/withdrawals/:id/approve. The payable
// figure in the reply is the net after the platform fee; the wallet debit is
// the gross amount.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	receipt, err := h.withdrawalSvc.Approve(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "withdrawal.approve", "withdrawal", id,
		fmt.Sprintf("amount=%s payable=%s", receipt.Amount.StringFixed(2), receipt.Payable.StringFixed(2)), c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"withdrawal": receipt.Request,
		"amount":     receipt.Amount,
		"payable":    receipt.Payable,
		"message":    fmt.Sprintf("Approved. Pay out %s to the user's bank.", receipt.Payable.StringFixed(2)),
	})
}

// RejectWithdrawal handles POST /admin/withdrawals/:id/reject.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	w, err := h.withdrawalSvc.Reject(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "withdrawal.reject", "withdrawal", id, "", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// ListWithdrawals handles GET /admin/withdrawals?status=pending.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.List(c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// ManualAdjust handles POST /admin/adjustments: signed delta to a named
// balance column, resolved by email, referral code or user id.
func (h *AdminHandler) ManualAdjust(c *gin.Context) {
	var req struct {
		User   string          `json:"user" binding:"required"` // email | referral code | user id
		Column string          `json:"column" binding:"required"`
		Delta  decimal.Decimal `json:"delta" binding:"required"`
		Note   string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.withdrawalSvc.ManualAdjust(req.User, req.Column, req.Delta, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "account.manual_adjust", "ledger_entry", entry.ID,
		fmt.Sprintf("user=%d column=%s delta=%s", entry.UserID, req.Column, req.Delta.StringFixed(2)), c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RebuildAccount handles POST /admin/accounts/:id/rebuild: replays the
// user's ledger into their balances.
func (h *AdminHandler) RebuildAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	acct, err := h.ledgerSvc.Rebuild(id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditSvc.Record(h.actor(c), "account.rebuild", "account", id, "", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"account": acct})
}

// ListLedger handles GET /admin/ledger.
func (h *AdminHandler) ListLedger(c *gin.Context) {
	limit, offset := pagination(c)
	entries, err := h.ledgerRepo.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Dashboard handles GET /admin/dashboard: pending counts as pure reads.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	pendingOrders, err := h.orderRepo.CountPending()
	if err != nil {
		respondError(c, err)
		return
	}
	pendingPayments, err := h.paymentRepo.CountPending()
	if err != nil {
		respondError(c, err)
		return
	}
	pendingWithdrawals, err := h.withdrawalRepo.CountPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pending_orders":      pendingOrders,
		"pending_payments":    pendingPayments,
		"pending_withdrawals": pendingWithdrawals,
	})
}

// GetSettings handles GET /admin/settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.All()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles PUT /admin/settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for k, v := range req {
		if err := h.settingRepo.Set(k, v); err != nil {
			respondError(c, err)
			return
		}
	}
	h.auditSvc.Record(h.actor(c), "settings.update", "system_setting", 0,
		fmt.Sprintf("%d keys", len(req)), c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"updated": len(req)})
}

// ListAudit handles GET /admin/audit.
func (h *AdminHandler) ListAudit(c *gin.Context) {
	limit, offset := pagination(c)
	entries, err := h.auditSvc.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": entries})
}

// CreateProduct handles POST /admin/products.
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name           string          `json:"name" binding:"required"`
		Description    string          `json:"description"`
		Price          decimal.Decimal `json:"price" binding:"required"`
		CashbackAmount decimal.Decimal `json:"cashback_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CashbackAmount: req.CashbackAmount,
		IsActive:       true,
	}
	if err := h.catalogRepo.CreateProduct(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// CreatePackage handles POST /admin/packages.
func (h *AdminHandler) CreatePackage(c *gin.Context) {
	var req struct {
		Name         string          `json:"name" binding:"required"`
		Price        decimal.Decimal `json:"price" binding:"required"`
		DurationDays int             `json:"duration_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationDays <= 0 {
		req.DurationDays = 30
	}
	p := &models.Package{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		IsActive:     true,
	}
	if err := h.catalogRepo.CreatePackage(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"package": p})
}
