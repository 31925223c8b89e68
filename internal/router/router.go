// internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/config"
	"github.com/javajoker/medlocator/internal/handlers"
	"github.com/javajoker/medlocator/internal/middleware"
	"github.com/javajoker/medlocator/internal/repository"
	"github.com/javajoker/medlocator/internal/search"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

const version = "1.0.0"

// Dependencies are the connections the router wires services onto.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	SearchDB *sqlx.DB
	// Redis is optional; without it the candidate cache is off.
	Redis *redis.Client
	// Storage overrides the S3 service built from Config.
	Storage *services.StorageService
	// HTTPClient overrides the assistant's upstream client.
	HTTPClient *http.Client
	// RateLimits defaults to middleware.DefaultRateLimits.
	RateLimits *middleware.RateLimits
}

// App is the HTTP engine plus the background workers it depends on.
type App struct {
	Engine     *gin.Engine
	SearchLog  *services.SearchLogService
	Sweeper    *services.ExpirySweeper
	RateLimits *middleware.RateLimits
	Audit      *middleware.AuditLogger
}

// Start launches background workers. They stop when ctx is done or Stop
// is called.
func (a *App) Start(ctx context.Context) {
	a.SearchLog.Start(ctx)
	a.RateLimits.Run(ctx)
	if a.Sweeper != nil {
		a.Sweeper.Start(ctx)
	}
}

// Stop drains the search log, stops the sweeper and waits for audit writes.
func (a *App) Stop() {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}
	a.SearchLog.Stop()
	a.Audit.Wait()
}

func Initialize(deps Dependencies) (*App, error) {
	cfg := deps.Config

	// Search read path, optionally behind the Redis candidate cache
	var recordStore search.RecordStore = repository.NewInventorySearchStore(deps.SearchDB)
	var invalidator services.Invalidator
	if deps.Redis != nil {
		cached := search.NewCachedStore(recordStore, deps.Redis, cfg.Search.CacheTTL)
		recordStore, invalidator = cached, cached
	}
	engine := search.NewEngine(recordStore, search.OptionsFromConfig(cfg.Search))

	// Initialize services
	storageService := deps.Storage
	if storageService == nil {
		var err error
		if storageService, err = services.NewStorageService(cfg); err != nil {
			return nil, err
		}
	}
	profileService := services.NewProfileService(deps.DB)
	storeService := services.NewStoreService(deps.DB, invalidator)
	inventoryService := services.NewInventoryService(deps.DB, storeService, invalidator)
	favoriteService := services.NewFavoriteService(deps.DB, storeService)
	searchLogService := services.NewSearchLogService(deps.DB, cfg.Search.LogQueueSize, cfg.Search.LogWorkers)
	notificationService := services.NewNotificationService(deps.DB)
	assistantService := services.NewAssistantService(cfg.Assistant, deps.HTTPClient)

	var sweeper *services.ExpirySweeper
	if cfg.Inventory.SweepEnabled {
		sweeper = services.NewExpirySweeper(inventoryService, cfg.Inventory.SweepInterval).
			WithDigest(notificationService, cfg.Inventory.ExpiryAlertDays)
	}

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(engine, searchLogService, cfg.Search.DefaultRadiusKm)
	profileHandler := handlers.NewProfileHandler(profileService)
	storeHandler := handlers.NewStoreHandler(storeService, storageService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, storeService, cfg.Inventory.ExpiryAlertDays)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	verifier := utils.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	auth := middleware.NewAuth(verifier, profileService)
	limits := deps.RateLimits
	if limits == nil {
		limits = middleware.DefaultRateLimits()
	}
	audit := middleware.NewAuditLogger(deps.DB)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.General.Middleware())
	r.Use(audit.Middleware())

	// Health check
	r.GET("/health", healthHandler(deps))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		v1.GET("/search/medicines", limits.Search.Middleware(), auth.Optional(), searchHandler.SearchMedicines)

		v1.GET("/me", auth.Required(), profileHandler.GetMe)
		v1.PUT("/me", auth.Required(), profileHandler.UpdateMe)

		// Public store pages
		stores := v1.Group("/stores")
		{
			stores.GET("/:id", storeHandler.GetStore)
			stores.GET("/:id/inventory", auth.Optional(), inventoryHandler.ListStoreInventory)
		}

		// Retailer dashboard
		retailer := v1.Group("/retailer")
		retailer.Use(auth.Required(), middleware.RetailerRequired())
		{
			retailer.GET("/stores", storeHandler.ListMyStores)
			retailer.POST("/stores", storeHandler.CreateStore)
			retailer.PUT("/stores/:id", storeHandler.UpdateStore)
			retailer.DELETE("/stores/:id", storeHandler.DeleteStore)
			retailer.PUT("/stores/:id/status", storeHandler.SetStoreStatus)
			retailer.POST("/stores/:id/images", limits.Upload.Middleware(), storeHandler.UploadStoreImage)
			retailer.POST("/stores/:id/inventory", inventoryHandler.AddItem)
			retailer.GET("/stores/:id/expiry-alerts", inventoryHandler.ExpiryAlerts)

			retailer.PUT("/inventory/:id", inventoryHandler.UpdateItem)
			retailer.DELETE("/inventory/:id", inventoryHandler.DeleteItem)
			retailer.PATCH("/inventory/:id/stock", inventoryHandler.AdjustStock)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(auth.Required())
		{
			favorites.GET("", favoriteHandler.ListFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("/:storeId", favoriteHandler.RemoveFavorite)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(auth.Required())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		assistant := v1.Group("/assistant")
		{
			assistant.POST("/chat", limits.Chat.Middleware(), assistantHandler.Chat)
			assistant.GET("/health", assistantHandler.Health)
		}
	}

	return &App{
		Engine:     r,
		SearchLog:  searchLogService,
		Sweeper:    sweeper,
		RateLimits: limits,
		Audit:      audit,
	}, nil
}

// healthHandler reports degraded when the primary database is unreachable.
// Redis is informational since search works without it.
func healthHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		checks := gin.H{"database": "ok"}

		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
			checks["database"] = "unreachable"
		}
		if deps.Redis != nil {
			checks["cache"] = "ok"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				logrus.WithError(err).Warn("Redis health check failed")
				checks["cache"] = "unreachable"
			}
		}

		c.JSON(code, gin.H{
			"status":  status,
			"version": version,
			"checks":  checks,
		})
	}
}
