package router

import (
	"edumart/config"
	"edumart/internal/handler"
	"edumart/internal/middleware"
	"edumart/internal/repository"
	"edumart/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	auditSvc := service.NewAuditService(auditRepo)
	ledgerSvc := service.NewLedgerService(db, ledgerRepo, accountRepo)
	commissionSvc := service.NewCommissionService(orderRepo, affiliateRepo, ledgerSvc)
	fulfillmentSvc := service.NewFulfillmentService(orderRepo, ledgerSvc, commissionSvc)
	shopSvc := service.NewShopService(orderRepo, catalogRepo, affiliateRepo)
	paymentSvc := service.NewPaymentService(db, paymentRepo, userRepo, catalogRepo, settingRepo, ledgerSvc)
	withdrawalSvc := service.NewWithdrawalService(db, withdrawalRepo, accountRepo, userRepo, ledgerSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(accountRepo, ledgerSvc)
	shopHandler := handler.NewShopHandler(shopSvc, orderRepo, catalogRepo)
	affiliateHandler := handler.NewAffiliateHandler(affiliateRepo, catalogRepo)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, withdrawalRepo)
	adminHandler := handler.NewAdminHandler(
		fulfillmentSvc, paymentSvc, withdrawalSvc, ledgerSvc, auditSvc,
		orderRepo, paymentRepo, withdrawalRepo, ledgerRepo, settingRepo, catalogRepo, userRepo,
	)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/refresh", authHandler.Refresh)
		v1.GET("/r/:code", affiliateHandler.Click)
		v1.GET("/products", shopHandler.ListProducts)
		v1.GET("/packages", shopHandler.ListPackages)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthRequired(&cfg.JWT))
	{
		authed.GET("/wallet", walletHandler.GetBalance)
		authed.GET("/wallet/ledger", walletHandler.GetLedger)
		authed.POST("/orders", shopHandler.CreateOrder)
		authed.GET("/orders", shopHandler.ListOrders)
		authed.POST("/affiliate/links", affiliateHandler.CreateLink)
		authed.GET("/affiliate/links", affiliateHandler.ListLinks)
		authed.POST("/payments", paymentHandler.Submit)
		authed.POST("/withdrawals", withdrawalHandler.Create)
		authed.GET("/withdrawals", withdrawalHandler.List)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/orders", adminHandler.ListOrders)
		admin.PUT("/orders/:id/status", adminHandler.UpdateOrder)
		admin.GET("/payments", adminHandler.ListPayments)
		admin.POST("/payments/:id/approve", adminHandler.ApprovePayment)
		admin.POST("/payments/:id/reject", adminHandler.RejectPayment)
		admin.GET("/withdrawals", adminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
		admin.POST("/adjustments", adminHandler.ManualAdjust)
		admin.POST("/accounts/:id/rebuild", adminHandler.RebuildAccount)
		admin.GET("/ledger", adminHandler.ListLedger)
		admin.GET("/audit", adminHandler.ListAudit)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)
		admin.POST("/products", adminHandler.CreateProduct)
		admin.POST("/packages", adminHandler.CreatePackage)
	}

	return r
}
