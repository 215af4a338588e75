// Package router wires handlers and middleware into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs to build the engine
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist

	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Product    *handler.ProductHandler
	Category   *handler.CategoryHandler
	Customer   *handler.CustomerHandler
	Stock      *handler.StockHandler
	Register   *handler.RegisterHandler
	Sale       *handler.SaleHandler
	Proforma   *handler.ProformaHandler
	Validation *handler.ValidationHandler
}

// New builds the gin engine with all middleware and routes
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.CORSWithConfig(corsCfg),
	)

	engine.GET("/health", deps.System.Health)
	engine.GET("/ready", deps.System.Ready)

	api := engine.Group("/api/v1")
	registerAuthRoutes(api, deps)
	registerStaffRoutes(api, deps)
	registerCatalogRoutes(api, deps)
	registerCustomerRoutes(api, deps)
	registerStockRoutes(api, deps)
	registerRegisterRoutes(api, deps)
	registerSaleRoutes(api, deps)
	registerProformaRoutes(api, deps)
	registerValidationRoutes(api, deps)

	return engine
}

func authRequired(deps Dependencies) gin.HandlerFunc {
	return middleware.JWTAuth(deps.JWTService, deps.Blacklist, deps.Logger)
}

func managers() gin.HandlerFunc {
	return middleware.RequireRoles(identity.RoleAdmin, identity.RoleManager)
}

func admins() gin.HandlerFunc {
	return middleware.RequireRoles(identity.RoleAdmin)
}

func registerAuthRoutes(api *gin.RouterGroup, deps Dependencies) {
	public := api.Group("/auth")
	public.POST("/login", deps.Auth.Login)

	private := api.Group("/auth", authRequired(deps))
	private.POST("/logout", deps.Auth.Logout)
	private.GET("/me", deps.Auth.Me)
	private.POST("/change-password", deps.Auth.ChangePassword)
}

func registerStaffRoutes(api *gin.RouterGroup, deps Dependencies) {
	users := api.Group("/users", authRequired(deps), admins())
	users.POST("", deps.User.Create)
	users.GET("", deps.User.List)
	users.GET("/:id", deps.User.Get)
	users.PUT("/:id", deps.User.Update)
	users.POST("/:id/activate", deps.User.Activate)
	users.POST("/:id/deactivate", deps.User.Deactivate)
}

func registerCatalogRoutes(api *gin.RouterGroup, deps Dependencies) {
	products := api.Group("/products", authRequired(deps))
	products.GET("", deps.Product.List)
	products.GET("/:id", deps.Product.Get)
	products.GET("/sku/:sku", deps.Product.GetBySKU)
	products.POST("", managers(), deps.Product.Create)
	products.PUT("/:id", managers(), deps.Product.Update)
	products.POST("/:id/prices", managers(), deps.Product.ChangePrices)
	products.DELETE("/:id", managers(), deps.Product.Delete)
	products.POST("/:id/activate", managers(), deps.Product.Activate)
	products.POST("/:id/deactivate", managers(), deps.Product.Deactivate)

	categories := api.Group("/categories", authRequired(deps))
	categories.GET("", deps.Category.List)
	categories.GET("/:id", deps.Category.Get)
	categories.POST("", managers(), deps.Category.Create)
	categories.PUT("/:id", managers(), deps.Category.Update)
	categories.DELETE("/:id", managers(), deps.Category.Delete)
}

func registerCustomerRoutes(api *gin.RouterGroup, deps Dependencies) {
	customers := api.Group("/customers", authRequired(deps))
	customers.GET("", deps.Customer.List)
	customers.GET("/:id", deps.Customer.Get)
	customers.POST("", deps.Customer.Create)
	customers.PUT("/:id", deps.Customer.Update)
	customers.POST("/:id/activate", managers(), deps.Customer.Activate)
	customers.POST("/:id/deactivate", managers(), deps.Customer.Deactivate)
}

func registerStockRoutes(api *gin.RouterGroup, deps Dependencies) {
	stock := api.Group("/stock", authRequired(deps))
	stock.GET("/movements", deps.Stock.Movements)
	stock.GET("/products/:id/history", deps.Stock.ProductHistory)
	stock.POST("/products/:id/adjust", managers(), deps.Stock.Adjust)
	stock.GET("/alerts", deps.Stock.Alerts)
	stock.POST("/alerts/:id/resolve", managers(), deps.Stock.ResolveAlert)
}

func registerRegisterRoutes(api *gin.RouterGroup, deps Dependencies) {
	registers := api.Group("/registers", authRequired(deps))
	registers.POST("/open", deps.Register.Open)
	registers.POST("/close", deps.Register.Close)
	registers.GET("/current", deps.Register.Current)
	registers.GET("", managers(), deps.Register.List)
	registers.GET("/:id", managers(), deps.Register.Get)
	registers.POST("/settings/secret", admins(), deps.Register.ChangeOpeningSecret)
	registers.PUT("/settings/opening-float", admins(), deps.Register.SetDefaultOpeningAmount)
}

func registerSaleRoutes(api *gin.RouterGroup, deps Dependencies) {
	sales := api.Group("/sales", authRequired(deps))
	sales.POST("", deps.Sale.Create)
	sales.GET("", deps.Sale.List)
	sales.GET("/:id", deps.Sale.Get)
	sales.GET("/number/:number", deps.Sale.GetByNumber)
	sales.POST("/:id/cancel", deps.Sale.Cancel)
}

func registerProformaRoutes(api *gin.RouterGroup, deps Dependencies) {
	proformas := api.Group("/proformas", authRequired(deps))
	proformas.POST("", deps.Proforma.Create)
	proformas.GET("", deps.Proforma.List)
	proformas.GET("/:id", deps.Proforma.Get)
	proformas.POST("/:id/items", deps.Proforma.AddItem)
	proformas.PUT("/:id/items/:itemId", deps.Proforma.UpdateItem)
	proformas.DELETE("/:id/items/:itemId", deps.Proforma.RemoveItem)
	proformas.POST("/:id/cancel", deps.Proforma.Cancel)
	proformas.POST("/:id/convert", deps.Proforma.Convert)
}

func registerValidationRoutes(api *gin.RouterGroup, deps Dependencies) {
	validations := api.Group("/validations", authRequired(deps))
	validations.POST("", deps.Validation.Request)
	validations.GET("/check", deps.Validation.Check)
	validations.POST("/:id/decide", deps.Validation.Decide)
	validations.GET("", managers(), deps.Validation.List)
	validations.GET("/settings", managers(), deps.Validation.GetSettings)
	validations.PUT("/settings", admins(), deps.Validation.UpdateSettings)
	validations.GET("/:id", deps.Validation.Get)
}
