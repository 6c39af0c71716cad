package handler

import (
	"net/http"

	"edumart/internal/middleware"
	"edumart/internal/repository"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	shopSvc     *service.ShopService
	orderRepo   *repository.OrderRepository
	catalogRepo *repository.CatalogRepository
}

func NewShopHandler(shopSvc *service.ShopService, orderRepo *repository.OrderRepository, catalogRepo *repository.CatalogRepository) *ShopHandler {
	return &ShopHandler{shopSvc: shopSvc, orderRepo: orderRepo, catalogRepo: catalogRepo}
}

// ListProducts handles GET /products.
func (h *ShopHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)
	products, err := h.catalogRepo.ListProducts(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListPackages handles GET /packages.
func (h *ShopHandler) ListPackages(c *gin.Context) {
	packages, err := h.catalogRepo.ListPackages()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

// CreateOrder handles POST /orders.
func (h *ShopHandler) CreateOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ProductID     uint   `json:"product_id" binding:"required"`
		Quantity      int    `json:"quantity" binding:"required,min=1"`
		AffiliateCode string `json:"affiliate_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.shopSvc.PlaceOrder(userID, req.ProductID, req.Quantity, req.AffiliateCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders handles GET /orders: the current user's orders.
func (h *ShopHandler) ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	orders, err := h.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
