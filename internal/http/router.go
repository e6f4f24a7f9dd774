package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/orderdoc-backend/internal/http/handlers"
	httpMW "github.com/yungbote/orderdoc-backend/internal/http/middleware"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	// SkipMetricsRoute leaves /metrics to a dedicated listener.
	SkipMetricsRoute bool

	OrderHandler  *httpH.OrderHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && !cfg.SkipMetricsRoute {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	orders := r.Group("/v1/order")
	if cfg.OrderHandler != nil {
		orders.POST("/create/form-guest", cfg.OrderHandler.CreateForm)
	}

	protected := orders.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Orders
		if cfg.OrderHandler != nil {
			protected.POST("/create/form", cfg.OrderHandler.CreateForm)
			protected.POST("/create/bulk", cfg.OrderHandler.CreateBulk)
			protected.POST("/create/csv", cfg.OrderHandler.CreateCSV)
			protected.GET("/list", cfg.OrderHandler.List)
			protected.GET("/:orderId", cfg.OrderHandler.GetXML)
			protected.PUT("/:orderId", cfg.OrderHandler.Replace)
			protected.DELETE("/:orderId", cfg.OrderHandler.Delete)
		}
	}

	return r
}
