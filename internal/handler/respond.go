package handler

import (
	"errors"
	"net/http"

	"edumart/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError translates a service error into an HTTP reply. Raw store
// errors never reach the client; anything unclassified becomes a bare 500.
func respondError(c *gin.Context, err error) {
	var ib *domain.InsufficientBalanceError
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &ib):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Insufficient Balance: available " + ib.Balance.StringFixed(2),
			"balance": ib.Balance,
		})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
