package main

import (
	"github.com/billing/backend/internal/application/admin"
	catalogapp "github.com/billing/backend/internal/application/catalog"
	tradeapp "github.com/billing/backend/internal/application/trade"
	"github.com/billing/backend/internal/infrastructure/backend"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/billing/backend/internal/interfaces/http/handler"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/billing/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newEngine builds the gin engine with the middleware stack and every
// billing, admin and system route on top of b. A nil meters records no
// metrics.
func newEngine(cfg *config.Config, log *zap.Logger, b *backend.Backend, meters *telemetry.MeterProvider) *gin.Engine {
	var productOpts []catalogapp.ProductServiceOption
	if meters.IsEnabled() {
		productMetrics, err := telemetry.NewProductMetrics(meters.Meter("billing.catalog"))
		if err != nil {
			log.Warn("Failed to create product metrics", zap.Error(err))
		} else {
			productOpts = append(productOpts, catalogapp.WithProductMetrics(productMetrics))
		}
	}

	productService := catalogapp.NewProductService(b.Products, log, productOpts...)
	orderService := tradeapp.NewOrderService(b.Orders, log)
	orderAdminService := admin.NewOrderAdminService(b.Orders, b.Products, log)

	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	adminOrderHandler := handler.NewAdminOrderHandler(orderAdminService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, b.Store)

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID runs first; logging and tracing read the id it sets
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:   meters.Meter("http.server"),
		Enabled: meters.IsEnabled(),
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/order", orderHandler.List)
	productRoutes := billingRoutes.Group("products", "/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.POST("", productHandler.Create)
	productRoutes.DELETE("", productHandler.DeleteAll)
	productRoutes.GET("/:id", productHandler.GetByID)
	productRoutes.PATCH("/:id", productHandler.Update)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)

	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminOrders := adminRoutes.Group("orders", "/orders")
	adminOrders.GET("", adminOrderHandler.List)
	adminOrders.POST("", adminOrderHandler.Create)
	adminOrders.GET("/options", adminOrderHandler.Options)
	adminOrders.GET("/:id", adminOrderHandler.GetByID)
	adminOrders.PATCH("/:id/status", adminOrderHandler.UpdateStatus)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(billingRoutes).Register(adminRoutes).Register(systemRoutes)
	r.Setup()

	for _, g := range []*router.DomainGroup{billingRoutes, adminRoutes, systemRoutes} {
		log.Debug("Routes registered",
			zap.String("group", g.Name()),
			zap.String("base_path", r.BasePath()),
			zap.Strings("routes", g.Routes()),
		)
	}

	return engine
}

// corsConfig overlays the configured origins, methods and headers on the
// middleware defaults
func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
