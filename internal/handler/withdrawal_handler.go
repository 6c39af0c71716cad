package handler

import (
	"net/http"

	"edumart/internal/middleware"
	"edumart/internal/repository"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawalSvc  *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(withdrawalSvc *service.WithdrawalService, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc, withdrawalRepo: withdrawalRepo}
}

// Create handles POST /withdrawals: a new payout request. The balance is
// checked at approval time, not here.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		BankDetails string          `json:"bank_details" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.withdrawalSvc.Request(userID, req.Amount, req.BankDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"withdrawal": w,
		"message":    "Withdrawal request submitted for review.",
	})
}

// List handles GET /withdrawals: the caller's own requests.
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.ListByUser(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
