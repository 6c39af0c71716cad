package handler

import (
	"net/http"
	"strconv"

	"edumart/internal/middleware"
	"edumart/internal/repository"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	accountRepo *repository.AccountRepository
	ledger      *service.LedgerService
}

func NewWalletHandler(accountRepo *repository.AccountRepository, ledger *service.LedgerService) *WalletHandler {
	return &WalletHandler{accountRepo: accountRepo, ledger: ledger}
}

// GetBalance returns the current user's account balances.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	a, err := h.accountRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": a})
}

// GetLedger returns a page of the current user's ledger history.
func (h *WalletHandler) GetLedger(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	entries, err := h.ledger.History(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// pagination reads limit/offset query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
