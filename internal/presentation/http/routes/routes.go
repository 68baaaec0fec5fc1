package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/presentation/http/handler"
	"github.com/sangkips/receipt-studio/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Draft   *handler.DraftHandler
	History *handler.HistoryHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg         *config.Config
	Log         *zap.SugaredLogger
	Sessions    *service.SessionManager
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "ok",
			"service":  deps.Cfg.App.Name,
			"sessions": deps.Sessions.Count(),
		})
	})

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerHistoryRoutes(v1, h)

		// Routes that act on the caller's draft
		drafted := v1.Group("")
		drafted.Use(middleware.SessionMiddleware(deps.Sessions))

		registerDraftRoutes(drafted, h)
		registerHistoryLoadRoute(drafted, h)
		registerPrinterRoutes(drafted, h)
	}

	return router
}

func registerDraftRoutes(rg *gin.RouterGroup, h *Handlers) {
	draft := rg.Group("/draft")
	{
		draft.GET("", h.Draft.Get)
		draft.PATCH("", h.Draft.UpdateFields)
		draft.PUT("/logo", h.Draft.UploadLogo)
		draft.DELETE("/logo", h.Draft.ClearLogo)
		draft.POST("/items", h.Draft.AddItem)
		draft.PUT("/items/:index", h.Draft.UpdateItem)
		draft.DELETE("/items/:index", h.Draft.RemoveItem)
		draft.POST("/reset", h.Draft.Reset)
		draft.POST("/download", h.Draft.Download)
	}
}

func registerHistoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	history := rg.Group("/history")
	{
		history.GET("", h.History.List)
		history.GET("/:id", h.History.Get)
		history.DELETE("/:id", h.History.Delete)
	}
}

func registerHistoryLoadRoute(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/history/:id/load", h.History.Load)
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printerGroup := rg.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
