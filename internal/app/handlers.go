package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/orderdoc-backend/internal/http/handlers"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Order  *httpH.OrderHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Order:  httpH.NewOrderHandler(log, services.Order),
	}
}
