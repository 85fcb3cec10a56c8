package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"autoshop/internal/handler/api"
	"autoshop/internal/handler/middleware"
	"autoshop/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, autoShopHandler *api.AutoShopHandler, identityMiddleware *middleware.IdentityMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, autoShopHandler, identityMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, autoShopHandler *api.AutoShopHandler, identityMiddleware *middleware.IdentityMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		autoShop := apiGroup.Group("/autoshop")
		autoShop.Use(identityMiddleware.ResolveIdentity())
		{
			addRoutes(autoShop, []route{
				{Method: http.MethodPost, Path: "/settings", Handler: autoShopHandler.SaveSettings},
				{Method: http.MethodPost, Path: "/start", Handler: autoShopHandler.Start},
				{Method: http.MethodPost, Path: "/stop", Handler: autoShopHandler.Stop},
				{Method: http.MethodPost, Path: "/clear", Handler: autoShopHandler.Clear},
				{Method: http.MethodDelete, Path: "/item/:id", Handler: autoShopHandler.RemoveItem},
				{Method: http.MethodPost, Path: "/item/:id/cart", Handler: autoShopHandler.AddToCart},
				{Method: http.MethodGet, Path: "/pending", Handler: autoShopHandler.Pending},
				{Method: http.MethodGet, Path: "/history", Handler: autoShopHandler.History},
				{Method: http.MethodGet, Path: "/status", Handler: autoShopHandler.Status},
				{Method: http.MethodGet, Path: "/balance", Handler: autoShopHandler.Balance},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		g.Handle(r.Method, r.Path, r.Handler)
	}
}
