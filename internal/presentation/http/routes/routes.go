package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/config"
	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-print-server/internal/presentation/http/handler"
	"github.com/sangkips/pos-print-server/internal/presentation/http/middleware"
	"github.com/sangkips/pos-print-server/pkg/apperror"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Printer *handler.PrinterHandler
	Health  *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg    *config.Config
	Logger *zap.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Setup creates the Gin router and registers all routes. The returned stop
// function releases background resources held by middleware.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, func()) {
	router := gin.New()
	stop := func() {}

	// Global middleware
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)
	if deps.Cfg.Metrics.Enabled && deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("")
	api.Use(middleware.BodyLimit(deps.Cfg.HTTP.MaxBodySize))
	if deps.Cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		api.Use(rateLimiter.Middleware())
		stop = rateLimiter.Stop
	}

	registerPrintRoutes(api, h)
	registerPrinterRoutes(api, h)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, apperror.ErrNotFound)
	})

	return router, stop
}

func registerPrintRoutes(rg *gin.RouterGroup, h *Handlers) {
	printGroup := rg.Group("/print")
	{
		printGroup.POST("/precuenta", h.Printer.PrintPreBill)
		printGroup.POST("/comanda", h.Printer.PrintKitchenTicket)
		printGroup.POST("/cierre-caja", h.Printer.PrintCashClosing)
		printGroup.POST("/cierre-diario", h.Printer.PrintDailyClosing)
		printGroup.POST("/anulados", h.Printer.PrintVoidedOrders)
		printGroup.POST("/factura-electronica", h.Printer.PrintInvoice)
		printGroup.POST("/abrir-cajon", h.Printer.OpenCashDrawer)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printerGroup := rg.Group("/printer")
	{
		printerGroup.GET("/status/:ip", h.Printer.GetStatus)
	}
}
