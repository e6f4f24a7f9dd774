package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orderdoc-backend/internal/http"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		Metrics:          metrics,
		AuthMiddleware:   middleware.Auth,
		SkipMetricsRoute: cfg.Metrics.Addr != "",
		OrderHandler:     handlers.Order,
		HealthHandler:    handlers.Health,
	})
}
