package handler

import (
	"net/http"

	"edumart/internal/middleware"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Submit handles POST /payments: a deposit proof or plan purchase awaiting
// admin review.
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Purpose   string          `json:"purpose" binding:"required"`
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		PackageID *uint           `json:"package_id"`
		Reference string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.paymentSvc.Submit(userID, req.Purpose, req.Amount, req.PackageID, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p})
}
