package handler

import (
	"net/http"

	"edumart/internal/middleware"
	"edumart/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AffiliateHandler struct {
	affiliateRepo *repository.AffiliateRepository
	catalogRepo   *repository.CatalogRepository
}

func NewAffiliateHandler(affiliateRepo *repository.AffiliateRepository, catalogRepo *repository.CatalogRepository) *AffiliateHandler {
	return &AffiliateHandler{affiliateRepo: affiliateRepo, catalogRepo: catalogRepo}
}

// CreateLink handles POST /affiliate/links: get or create the caller's link
// for a product. The commission rule is fixed at creation.
func (h *AffiliateHandler) CreateLink(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ProductID            uint            `json:"product_id" binding:"required"`
		CommissionAmount     decimal.Decimal `json:"commission_amount"`
		CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.catalogRepo.GetProduct(req.ProductID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	link, err := h.affiliateRepo.GetOrCreate(userID, req.ProductID, req.CommissionAmount, req.CommissionPercentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// ListLinks handles GET /affiliate/links: the caller's links with counters.
func (h *AffiliateHandler) ListLinks(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	links, err := h.affiliateRepo.ListByUser(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// Click handles GET /r/:code: records the click and returns the product the
// link points at. The UI uses this for the storefront redirect.
func (h *AffiliateHandler) Click(c *gin.Context) {
	link, err := h.affiliateRepo.GetByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown referral code"})
		return
	}
	_ = h.affiliateRepo.RecordClick(link.ID) // counter only, never blocks the redirect
	c.JSON(http.StatusOK, gin.H{
		"product_id":     link.ProductID,
		"affiliate_code": link.Code,
	})
}
