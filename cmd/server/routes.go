package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"fundguard.backend/internal/interfaces/http/handlers"
	"fundguard.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	ledgerHandler       *handlers.LedgerHandler
	deliveryHandler     *handlers.DeliveryHandler
	verificationHandler *handlers.VerificationHandler
	authMiddleware      gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID, Idempotency-Key")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "fundguard-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Ledger routes (protected)
		ledger := v1.Group("/ledger")
		ledger.Use(d.authMiddleware)
		{
			ledger.POST("/entries", middleware.RequireAdmin(), d.ledgerHandler.CreateEntry)
			ledger.GET("/entries", d.ledgerHandler.ListMyEntries)
			ledger.GET("/entries/:id", d.ledgerHandler.GetEntry)
			ledger.GET("/entries/:id/requirements", d.ledgerHandler.GetReleaseRequirements)
			ledger.POST("/entries/:id/request-release", d.ledgerHandler.RequestRelease)
			ledger.GET("/balance", d.ledgerHandler.GetMyBalance)
		}

		// Delivery routes (protected)
		deliveries := v1.Group("/deliveries")
		deliveries.Use(d.authMiddleware)
		{
			deliveries.GET("/:id", d.deliveryHandler.GetDelivery)
			deliveries.POST("/:id/evidence", d.deliveryHandler.SubmitEvidence)
		}

		// Verification routes (protected)
		verification := v1.Group("/verification")
		verification.Use(d.authMiddleware)
		{
			verification.GET("/me", d.verificationHandler.GetMyLevel)
			verification.POST("/submit", d.verificationHandler.SubmitDocuments)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/ledger/entries/:id/approve", d.ledgerHandler.Approve)
			admin.POST("/ledger/entries/:id/release", middleware.IdempotencyMiddleware(), d.ledgerHandler.Release)
			admin.POST("/ledger/entries/:id/block", d.ledgerHandler.Block)
			admin.POST("/ledger/entries/:id/unblock", d.ledgerHandler.Unblock)

			admin.GET("/deliveries/queue", d.deliveryHandler.ReviewQueue)
			admin.GET("/deliveries/stats", d.deliveryHandler.Stats)
			admin.POST("/deliveries/:id/review", d.deliveryHandler.StartReview)
			admin.POST("/deliveries/:id/verify", d.deliveryHandler.Verify)
			admin.POST("/deliveries/:id/dispute", d.deliveryHandler.Dispute)
			admin.POST("/deliveries/:id/reopen", d.deliveryHandler.ReopenReview)
			admin.POST("/deliveries/:id/complete", d.deliveryHandler.Complete)
			admin.POST("/deliveries/:id/mark-money-released", d.deliveryHandler.MarkMoneyReleased)

			admin.POST("/verification/:id/review", d.verificationHandler.Review)
		}
	}
}
