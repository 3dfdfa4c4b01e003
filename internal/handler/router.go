package handler

import (
	"github.com/gin-gonic/gin"

	"shopadmin/internal/config"
	"shopadmin/internal/middleware"
	"shopadmin/internal/monitor"
)

// Deps everything the console router serves
type Deps struct {
	Config  *config.Config
	Goods   *GoodsHandler
	Orders  *OrderHandler
	Account *AccountHandler
	Routes  *RouteHandler
	Health  *HealthHandler
	Metrics *monitor.MetricsCollector
	Tracer  *monitor.Tracer
}

// NewRouter builds the console engine
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.CustomLogger())
	router.Use(middleware.Recovery())
	if cfg.Security.CORS.Enabled {
		router.Use(middleware.CORS(cfg.Security))
	}
	if d.Tracer != nil {
		router.Use(middleware.Tracing(d.Tracer))
	}
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	if cfg.Server.RateLimit.Enabled {
		router.Use(middleware.RateLimitWithConfig(middleware.RateLimitConfig{
			Rate:  cfg.Server.RateLimit.RPS,
			Burst: cfg.Server.RateLimit.Burst,
			SkipFunc: func(c *gin.Context) bool {
				return c.FullPath() == "/health" || c.FullPath() == cfg.Metrics.Path
			},
		}))
	}

	router.GET("/health", d.Health.Health)
	if d.Metrics != nil && cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	api := router.Group("/api")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	{
		api.GET("/menu", d.Routes.Menu)
		api.GET("/routes/breadcrumb", d.Routes.Breadcrumb)

		api.POST("/session", d.Account.Login)
		api.DELETE("/session", d.Account.Logout)
		api.GET("/user/info", d.Account.Info)

		goods := api.Group("/goods")
		{
			goods.GET("", d.Goods.List)
			goods.GET("/all", d.Goods.ListAll)
			goods.POST("", d.Goods.Create)
			goods.GET("/menus", d.Goods.Menus)
			goods.POST("/menus", d.Goods.CreateMenu)
			goods.GET("/:id", d.Goods.Get)
			goods.PUT("/:id", d.Goods.Update)
			goods.DELETE("/:id", d.Goods.Delete)
		}

		orders := api.Group("/orders")
		{
			orders.POST("/query", d.Orders.Query)
			orders.POST("/status", d.Orders.UpdateStatus)
			orders.POST("/batch", d.Orders.Batch)
			orders.POST("/statistics", d.Orders.Statistics)
			orders.GET("/:id", d.Orders.Get)
		}
	}

	return router
}
