// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/config"
	"github.com/surplusline/marketplace-backend/internal/handlers"
	"github.com/surplusline/marketplace-backend/internal/middleware"
	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 unavailable, storing uploads locally")
		storageService, _ = services.NewStorageService(&config.Config{Server: cfg.Server})
	}

	buyerAnalyticsService := services.NewBuyerAnalyticsService(db)
	overviewService := services.NewOverviewService(db)
	productAnalyticsService := services.NewProductAnalyticsService(db)
	customerInsightService := services.NewCustomerInsightService(db)

	authService := services.NewAuthService(db, cfg, buyerAnalyticsService)
	businessService := services.NewBusinessService(db)
	assetService := services.NewAssetService(db)
	interestService := services.NewInterestService(db)
	salesService := services.NewSalesService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	assetHandler := handlers.NewAssetHandler(assetService, storageService)
	interestHandler := handlers.NewInterestHandler(interestService)
	salesHandler := handlers.NewSalesHandler(salesService)
	analyticsHandler := handlers.NewAnalyticsHandler(overviewService, productAnalyticsService, customerInsightService)
	buyerAnalyticsHandler := handlers.NewBuyerAnalyticsHandler(buyerAnalyticsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id/public", authHandler.GetPublicProfile)
		}

		// Business routes
		businesses := v1.Group("/businesses")
		{
			businesses.GET("/:id", businessHandler.GetBusiness)

			protected := businesses.Group("")
			protected.Use(middleware.AuthRequired(), middleware.SellerRequired())
			{
				protected.POST("", businessHandler.CreateBusiness)
				protected.GET("/mine", businessHandler.ListMyBusinesses)
				protected.PUT("/:id", businessHandler.UpdateBusiness)
			}
		}

		// Asset routes
		assets := v1.Group("/assets")
		{
			assets.GET("", middleware.OptionalAuth(), assetHandler.ListAssets)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)

			protected := assets.Group("")
			protected.Use(middleware.AuthRequired(), middleware.SellerRequired())
			{
				protected.POST("", assetHandler.CreateAsset)
				protected.PUT("/:id", assetHandler.UpdateAsset)
				protected.POST("/upload-images", middleware.UploadRateLimit(), assetHandler.UploadImages)
			}
		}

		// Interest routes
		interests := v1.Group("/interests")
		interests.Use(middleware.AuthRequired())
		{
			interests.POST("", interestHandler.CreateInterest)
			interests.GET("/received", interestHandler.ListReceived)
			interests.GET("/sent", interestHandler.ListSent)
			interests.PUT("/:id/negotiate", interestHandler.StartNegotiation)
			interests.PUT("/:id/accept", interestHandler.Accept)
			interests.PUT("/:id/reject", interestHandler.Reject)
		}

		// Sales routes
		sales := v1.Group("/sales")
		sales.Use(middleware.AuthRequired())
		{
			sales.POST("", salesHandler.RecordSale)
			sales.POST("/refund", salesHandler.RefundSale)
			sales.POST("/:id/payment-intent", salesHandler.CreatePaymentIntent)
			sales.DELETE("/:id", salesHandler.DeleteSale)
			sales.GET("/sold", salesHandler.ListSold)
			sales.GET("/purchases", salesHandler.ListPurchases)
		}

		// Analytics routes
		analytics := v1.Group("/analytics")
		analytics.Use(middleware.AuthRequired())
		{
			analytics.GET("/overview/:businessId", analyticsHandler.GetOverview)
			analytics.GET("/performance/:businessId", analyticsHandler.GetPerformance)
			analytics.GET("/assets/:assetId", analyticsHandler.GetAssetDetails)
			analytics.GET("/insights/:businessId", analyticsHandler.GetCustomerInsights)
			analytics.GET("/buyer/overview/:range", buyerAnalyticsHandler.GetOverview)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
