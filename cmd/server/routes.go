package main

import (
	"fxvault.backend/internal/interfaces/http/handlers"
	"fxvault.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	authHandler           *handlers.AuthHandler
	dashboardHandler      *handlers.DashboardHandler
	depositHandler        *handlers.DepositHandler
	paymentWebhookHandler *handlers.PaymentWebhookHandler
	withdrawalHandler     *handlers.WithdrawalHandler
	walletHandler         *handlers.WalletHandler
	investmentHandler     *handlers.InvestmentHandler
	tradeHandler          *handlers.TradeHandler
	kycHandler            *handlers.KYCHandler
	settingsHandler       *handlers.SettingsHandler
	uploadHandler         *handlers.UploadHandler
	adminUserHandler      *handlers.AdminUserHandler
	authMiddleware        gin.HandlerFunc
	maintenanceMiddleware gin.HandlerFunc
	authRateLimit         gin.HandlerFunc
	contactRateLimit      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	idempotent := middleware.IdempotencyMiddleware()

	// Public routes
	{
		auth := v1.Group("/auth")
		auth.POST("/register", d.authRateLimit, d.authHandler.Register)
		auth.POST("/login", d.authRateLimit, d.authHandler.Login)
		auth.POST("/refresh", d.authRateLimit, d.authHandler.RefreshToken)

		v1.GET("/settings/public", d.settingsHandler.GetPublicSettings)
		v1.GET("/packages", d.investmentHandler.ListPackages)
		v1.POST("/contact", d.contactRateLimit, d.settingsHandler.SubmitContact)
		v1.POST("/payments/ipn", d.paymentWebhookHandler.HandleIPN)
		v1.GET("/uploads/:name", d.uploadHandler.Serve)
	}

	// Session routes stay reachable during maintenance
	account := v1.Group("/auth")
	account.Use(d.authMiddleware)
	{
		account.GET("/me", d.authHandler.GetMe)
		account.POST("/logout", d.authHandler.Logout)
		account.POST("/change-password", d.authHandler.ChangePassword)
	}

	// User routes
	user := v1.Group("")
	user.Use(d.authMiddleware, d.maintenanceMiddleware)
	{
		user.PUT("/profile", d.authHandler.UpdateProfile)

		user.GET("/dashboard", d.dashboardHandler.GetDashboard)
		user.GET("/referrals", d.dashboardHandler.GetReferrals)

		user.GET("/deposits", d.depositHandler.ListDeposits)
		user.POST("/deposits", idempotent, d.depositHandler.CreateDeposit)
		user.POST("/deposits/invoice", idempotent, d.depositHandler.CreateInvoice)
		user.POST("/payments/direct", idempotent, d.depositHandler.CreateDirectPayment)

		user.GET("/withdrawals", d.withdrawalHandler.ListWithdrawals)
		user.POST("/withdrawals", idempotent, d.withdrawalHandler.RequestWithdrawal)

		user.GET("/wallets", d.walletHandler.ListWallets)

		user.GET("/investments", d.investmentHandler.ListInvestments)
		user.POST("/investments", idempotent, d.investmentHandler.Purchase)

		user.GET("/rounds", d.tradeHandler.ListOpenRounds)
		user.GET("/trades", d.tradeHandler.ListTrades)
		user.POST("/trades", idempotent, d.tradeHandler.PlaceTrade)

		user.GET("/kyc", d.kycHandler.GetMine)
		user.POST("/kyc", d.kycHandler.Submit)

		user.POST("/uploads", d.uploadHandler.Upload)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(d.authMiddleware, middleware.RequireAdmin())
	{
		admin.GET("/overview", d.dashboardHandler.GetAdminOverview)

		users := admin.Group("/users")
		{
			users.GET("", d.adminUserHandler.ListUsers)
			users.GET("/:id", d.adminUserHandler.GetUser)
			users.POST("/:id/balance", d.adminUserHandler.AdjustBalance)
			users.POST("/:id/ban", d.adminUserHandler.ToggleBan)
			users.POST("/:id/role", d.adminUserHandler.ToggleRole)
			users.POST("/:id/password", d.adminUserHandler.ResetPassword)
		}

		deposits := admin.Group("/deposits")
		{
			deposits.GET("", d.depositHandler.AdminListDeposits)
			deposits.POST("/:id/approve", d.depositHandler.ApproveDeposit)
			deposits.POST("/:id/reject", d.depositHandler.RejectDeposit)
		}

		withdrawals := admin.Group("/withdrawals")
		{
			withdrawals.GET("", d.withdrawalHandler.AdminListWithdrawals)
			withdrawals.PUT("/:id/status", d.withdrawalHandler.UpdateWithdrawalStatus)
		}

		packages := admin.Group("/packages")
		{
			packages.GET("", d.investmentHandler.AdminListPackages)
			packages.POST("", d.investmentHandler.CreatePackage)
			packages.PUT("/:id", d.investmentHandler.UpdatePackage)
			packages.DELETE("/:id", d.investmentHandler.DeletePackage)
			packages.POST("/:id/toggle", d.investmentHandler.TogglePackage)
		}

		wallets := admin.Group("/wallets")
		{
			wallets.GET("", d.walletHandler.AdminListWallets)
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.PUT("/:id", d.walletHandler.UpdateWallet)
			wallets.DELETE("/:id", d.walletHandler.DeleteWallet)
			wallets.POST("/:id/toggle", d.walletHandler.ToggleWallet)
		}

		rounds := admin.Group("/rounds")
		{
			rounds.GET("", d.tradeHandler.AdminListRounds)
			rounds.POST("", d.tradeHandler.CreateRound)
			rounds.PUT("/:id", d.tradeHandler.UpdateRound)
			rounds.DELETE("/:id", d.tradeHandler.DeleteRound)
			rounds.POST("/:id/activate", d.tradeHandler.ActivateRound)
			rounds.POST("/:id/cancel", d.tradeHandler.CancelRound)
			rounds.POST("/:id/complete", d.tradeHandler.CompleteRound)
		}

		kyc := admin.Group("/kyc")
		{
			kyc.GET("", d.kycHandler.AdminList)
			kyc.POST("/:id/review", d.kycHandler.Review)
		}

		admin.GET("/settings", d.settingsHandler.GetSettings)
		admin.PUT("/settings", d.settingsHandler.UpdateSettings)
		admin.GET("/contact-messages", d.settingsHandler.ListContactMessages)
		admin.GET("/audit-logs", d.adminUserHandler.ListAuditLogs)
	}
}
