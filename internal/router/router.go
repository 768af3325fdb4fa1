package router

import (
	"dataplug/config"
	"dataplug/internal/handler"
	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"
	"dataplug/pkg/payverify"
	"dataplug/pkg/provider"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the wired services the server and the scheduler share.
type Deps struct {
	MaturationSvc *service.MaturationService
	OrderSvc      *service.OrderService
}

func Setup(cfg *config.Config, db *gorm.DB, client provider.Client, verifier payverify.Verifier) (*gin.Engine, *Deps) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	productRepo := repository.NewProductRepository(db)
	shopRepo := repository.NewShopRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	settingsSvc := service.NewSettingsService(settingRepo, &cfg.Ledger)
	settingsSvc.ApplyOverrides()
	referralSvc := service.NewReferralService(referralRepo, userRepo)
	authSvc := service.NewAuthService(cfg, userRepo, walletRepo, referralSvc)
	commissionSvc := service.NewCommissionService(db, commissionRepo, referralRepo, &cfg.Ledger)
	orderSvc := service.NewOrderService(db, orderRepo, walletRepo, productRepo, shopRepo, commissionSvc, client)
	maturationSvc := service.NewMaturationService(commissionRepo)
	withdrawalSvc := service.NewWithdrawalService(db, withdrawalRepo, commissionRepo, &cfg.Ledger)
	recoverySvc := service.NewRecoveryService(db, paymentRepo, walletRepo, verifier, &cfg.Verifier)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(productRepo)
	shopHandler := handler.NewShopHandler(shopRepo, productRepo)
	orderHandler := handler.NewOrderHandler(orderSvc, orderRepo)
	walletHandler := handler.NewWalletHandler(cfg, walletRepo, recoverySvc)
	commissionHandler := handler.NewCommissionHandler(commissionRepo, commissionSvc)
	referralHandler := handler.NewReferralHandler(referralSvc, referralRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, withdrawalRepo)
	adminHandler := handler.NewAdminHandler(cfg, withdrawalSvc, withdrawalRepo, referralSvc, maturationSvc, settingsSvc, walletRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	sellerMw := middleware.RequireRole("AGENT", "DEALER")

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/products", productHandler.List)
		api.GET("/shops/:slug", shopHandler.Storefront)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/transactions", walletHandler.GetTransactions)
			me.POST("/wallet/recover", walletHandler.Recover)
			me.GET("/referral-code", referralHandler.MyCode)
			me.GET("/referrals", referralHandler.ListMine)
			me.GET("/commissions/summary", commissionHandler.Summary)
			me.GET("/commissions/referral", commissionHandler.ListReferral)
		}

		api.POST("/orders", authMw, orderHandler.Create)
		api.GET("/orders", authMw, orderHandler.ListMine)
		api.GET("/orders/:code", authMw, orderHandler.Get)

		sellers := api.Group("/sellers")
		sellers.Use(authMw, sellerMw)
		{
			sellers.POST("/shop", shopHandler.Create)
			sellers.GET("/shop", shopHandler.Mine)
			sellers.PUT("/shop/prices/:product_id", shopHandler.SetPrice)
			sellers.GET("/commissions", commissionHandler.List)
			sellers.POST("/withdrawals", withdrawalHandler.Create)
			sellers.GET("/withdrawals", withdrawalHandler.ListMine)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.PATCH("/withdrawals/:id", adminHandler.TransitionWithdrawal)
			admin.PATCH("/users/:id/role", adminHandler.UpgradeUser)
			admin.POST("/users/:id/wallet/credit", adminHandler.CreditWallet)
			admin.GET("/settings", adminHandler.ListSettings)
			admin.PUT("/settings/:key", adminHandler.UpdateSetting)
			admin.POST("/maturation/run", adminHandler.RunMaturation)
		}
	}

	return r, &Deps{MaturationSvc: maturationSvc, OrderSvc: orderSvc}
}
