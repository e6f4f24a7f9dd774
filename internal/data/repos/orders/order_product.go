package orders

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type RegisteredOrderProductRepo interface {
	// Create inserts rows in order, batched into multi-row statements.
	Create(dbc dbctx.Context, rows ...*order.RegisteredOrderProduct) error
	ListByOrderID(dbc dbctx.Context, orderID int) ([]*order.RegisteredOrderProduct, error)
}

type registeredOrderProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegisteredOrderProductRepo(db *gorm.DB, baseLog *logger.Logger) RegisteredOrderProductRepo {
	return &registeredOrderProductRepo{db: db, log: baseLog.With("repo", "RegisteredOrderProductRepo")}
}

func (r *registeredOrderProductRepo) Create(dbc dbctx.Context, rows ...*order.RegisteredOrderProduct) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	batch := make([]*order.RegisteredOrderProduct, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			batch = append(batch, row)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Omit("Order", "Product").CreateInBatches(batch, writeBatchSize).Error
}

// ListByOrderID returns junction rows in insertion order.
func (r *registeredOrderProductRepo) ListByOrderID(dbc dbctx.Context, orderID int) ([]*order.RegisteredOrderProduct, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*order.RegisteredOrderProduct
	if err := t.WithContext(dbc.Ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
