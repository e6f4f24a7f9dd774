package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
	"github.com/yungbote/orderdoc-backend/internal/services"
)

type Services struct {
	OrderAggregate domainagg.OrderDocumentAggregate
	OrderQuery     services.OrderQueryService
	Order          services.OrderService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	agg := aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db, cfg.Orders.TxTimeout),
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		Orders:        reposet.Order,
		Registered:    reposet.RegisteredOrder,
		Products:      reposet.Product,
		Junction:      reposet.RegisteredOrderProduct,
		MaxIDAttempts: cfg.Orders.MaxIDAttempts,
	})
	query := services.NewOrderQueryService(log, services.OrderQueryDeps{
		Orders:      reposet.Order,
		Registered:  reposet.RegisteredOrder,
		Junction:    reposet.RegisteredOrderProduct,
		Products:    reposet.Product,
		Cache:       clients.XMLCache,
		Metrics:     metrics,
		FanoutLimit: cfg.Orders.FanoutLimit,
		ListLimit:   cfg.Orders.ListLimit,
	})
	return Services{
		OrderAggregate: agg,
		OrderQuery:     query,
		Order:          services.NewOrderService(log, agg, query, metrics, nil),
	}
}
