package router

import (
	"time"

	"cinestore/config"
	"cinestore/internal/handler"
	"cinestore/internal/middleware"
	"cinestore/internal/repository"
	"cinestore/internal/service"
	"cinestore/internal/ws"
	"cinestore/pkg/clock"
	"cinestore/pkg/cloudinary"
	"cinestore/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	clk := clock.NewRealClock()
	eventsHub := ws.NewHub()

	var provider payment.Provider
	if cfg.OndaPay.ClientID != "" {
		provider = payment.NewOndaPayProvider(cfg.OndaPay.BaseURL, cfg.OndaPay.ClientID, cfg.OndaPay.ClientSecret)
	} else {
		provider = &payment.StubProvider{}
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	limiter := service.NewAttemptLimiter(purchaseRepo, cfg.Attempts, clk)
	checkoutSvc := service.NewCheckoutService(purchaseRepo, provider, limiter, clk, cfg.OndaPay, eventsHub)
	reconcileSvc := service.NewReconcileService(purchaseRepo, eventRepo, eventsHub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(productRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	webhookHandler := handler.NewPixWebhookHandler(reconcileSvc)
	statusHandler := handler.NewStatusHandler(reconcileSvc)
	historyHandler := handler.NewHistoryHandler(purchaseRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		// Public storefront
		api.GET("/products", productHandler.List)
		api.POST("/payments/pix", checkoutHandler.CreateSession)
		api.GET("/payments/status/:transaction_id", statusHandler.Get)

		// Provider callbacks
		api.POST("/webhooks/ondapay", webhookHandler.Handle)

		// Admin panel
		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/products", productHandler.Create)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.PUT("/products/reorder", productHandler.Reorder)
			admin.GET("/purchases", historyHandler.List)
			admin.POST("/uploads/image", uploadHandler.UploadProductImage)
		}
		// Websocket feed authenticates via query token inside the handler.
		api.GET("/admin/events/ws", ws.EventsWS(&cfg.JWT, eventsHub))
	}

	return r
}
