package router

import (
	"context"
	"time"

	"localprice/internal/config"
	"localprice/internal/handler"
	"localprice/internal/infra"
	"localprice/internal/middleware"
	"localprice/internal/model"
	"localprice/internal/repository"
	"localprice/internal/service"
	"localprice/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	geoRepo := repository.NewGeoRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	contributionRepo := repository.NewContributionRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	priceSvc := service.NewPriceService(priceRepo, catalogRepo, geoRepo, userRepo, contributionRepo, dispatcher)
	statsSvc := service.NewStatsService(priceRepo, supplierRepo, rdb, cfg.BasketWindowDays)
	catalogSvc := service.NewCatalogService(catalogRepo)
	geoSvc := service.NewGeoService(geoRepo)
	supplierSvc := service.NewSupplierService(supplierRepo, catalogRepo, geoRepo)
	contributionSvc := service.NewContributionService(contributionRepo, userRepo, dispatcher)
	webhookSvc := service.NewWebhookService(priceRepo, catalogRepo, geoRepo, userRepo)
	reportSvc := service.NewReportService(priceRepo)
	userSvc := service.NewUserService(userRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	pricesH := handler.NewPricesHandler(priceSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	geoH := handler.NewGeoHandler(geoSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	contributionsH := handler.NewContributionsHandler(contributionSvc)
	webhookH := handler.NewWebhookHandler(webhookSvc, cfg.WebhookSecret)
	usersH := handler.NewUsersHandler(userSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// Optional external identity provider path
	var verifier middleware.ExternalTokenVerifier
	if cfg.ExternalJWKSURL != "" {
		v, err := infra.NewExternalVerifier(ctx, cfg.ExternalIssuer, cfg.ExternalAudience, cfg.ExternalJWKSURL)
		if err != nil {
			log.Warn().Err(err).Msg("external verifier disabled: JWKS fetch failed")
		} else {
			verifier = v
		}
	}

	authMW := middleware.Auth(cfg.JWTSecret, verifier, userRepo)
	optionalAuthMW := middleware.OptionalAuth(cfg.JWTSecret, verifier, userRepo)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	contributorOrAdmin := middleware.RequireRole(model.RoleContributor, model.RoleAdmin)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Operational
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Kobo ingestion webhook — shared secret, not JWT
	r.POST("/v1/webhooks/kobo", middleware.WebhookRateLimiter(60, time.Minute), webhookH.Ingest)

	// Public browse surface — validated data only, anonymous allowed
	public := r.Group("/v1", optionalAuthMW)
	{
		public.GET("/prices", pricesH.ListValidated)
		public.GET("/prices/:id", pricesH.GetByID)

		public.GET("/stats/summary", statsH.Summary)
		public.GET("/stats/evolution", statsH.Evolution)
		public.GET("/stats/map", statsH.MapPoints)
		public.GET("/stats/best-by-category", statsH.BestByCategory)
		public.GET("/stats/cheapest", statsH.Cheapest)
		public.GET("/stats/basket", statsH.BasketIndex)

		public.GET("/products", catalogH.ListProducts)
		public.GET("/products/:id", catalogH.GetProduct)
		public.GET("/categories", catalogH.ListCategories)
		public.GET("/units", catalogH.ListUnits)
		public.GET("/regions", geoH.ListRegions)
		public.GET("/localities", geoH.ListLocalities)
		public.GET("/localities/:id", geoH.GetLocality)
		public.GET("/suppliers", suppliersH.List)
		public.GET("/suppliers/:id", suppliersH.Get)
		public.GET("/suppliers/:id/prices", suppliersH.ListPrices)
		public.GET("/suppliers/:id/availability", suppliersH.ListAvailability)
	}

	// Authenticated routes
	v1 := r.Group("/v1", authMW)
	{
		// Any signed-in user may apply for contributor and manage preferences
		v1.POST("/contributions", contributionsH.Apply)
		v1.GET("/me/preferences", contributionsH.GetPreferences)
		v1.PUT("/me/preferences", contributionsH.UpdatePreferences)

		// Submitting prices requires the contributor grant
		v1.POST("/prices", contributorOrAdmin, pricesH.Submit)

		// Moderation — admin only. The pending queues live under /admin so the
		// GET wildcard on /prices/:id stays unambiguous.
		v1.POST("/prices/:id/validate", adminOnly, pricesH.Validate)
		v1.POST("/prices/:id/reject", adminOnly, pricesH.Reject)
		v1.POST("/contributions/:id/approve", adminOnly, contributionsH.Approve)
		v1.POST("/contributions/:id/reject", adminOnly, contributionsH.Reject)

		// Reference data management — admin only
		catalog := v1.Group("", adminOnly)
		{
			catalog.POST("/products", catalogH.CreateProduct)
			catalog.PUT("/products/:id", catalogH.UpdateProduct)
			catalog.DELETE("/products/:id", catalogH.DeleteProduct)
			catalog.POST("/categories", catalogH.CreateCategory)
			catalog.POST("/units", catalogH.CreateUnit)
			catalog.POST("/regions", geoH.CreateRegion)
			catalog.POST("/localities", geoH.CreateLocality)
			catalog.PUT("/localities/:id", geoH.UpdateLocality)

			catalog.POST("/suppliers", suppliersH.Create)
			catalog.DELETE("/suppliers/:id", suppliersH.Delete)
			catalog.POST("/suppliers/:id/prices", suppliersH.AddPrice)
			catalog.PUT("/suppliers/:id/availability", suppliersH.SetAvailability)
		}

		// Account and role administration — admin only
		admin := v1.Group("/admin", adminOnly)
		{
			admin.GET("/prices/pending", pricesH.ListPending)
			admin.GET("/contributions/pending", contributionsH.ListPending)

			admin.GET("/users", usersH.List)
			admin.GET("/users/:id", usersH.Get)
			admin.DELETE("/users/:id", usersH.Deactivate)
			admin.PATCH("/users/:id/reactivate", usersH.Reactivate)
			// Role mutation is reserved to super_admin so an admin cannot
			// widen their own grants.
			superOnly := middleware.RequireRole(model.RoleSuperAdmin)
			admin.POST("/users/:id/roles", superOnly, usersH.GrantRole)
			admin.DELETE("/users/:id/roles", superOnly, usersH.RevokeRole)
			admin.GET("/roles/headcounts", usersH.RoleHeadcounts)

			admin.GET("/reports/validated-prices.xlsx", reportsH.ValidatedPricesXLSX)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
