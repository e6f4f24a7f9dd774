package orders

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type RegisteredOrderRepo interface {
	Create(dbc dbctx.Context, row *order.RegisteredOrder) error
	GetByOrderID(dbc dbctx.Context, orderID int) (*order.RegisteredOrder, error)
}

type registeredOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegisteredOrderRepo(db *gorm.DB, baseLog *logger.Logger) RegisteredOrderRepo {
	return &registeredOrderRepo{db: db, log: baseLog.With("repo", "RegisteredOrderRepo")}
}

func (r *registeredOrderRepo) Create(dbc dbctx.Context, row *order.RegisteredOrder) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Omit("Order").Create(row).Error
}

func (r *registeredOrderRepo) GetByOrderID(dbc dbctx.Context, orderID int) (*order.RegisteredOrder, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []order.RegisteredOrder
	if err := t.WithContext(dbc.Ctx).
		Where("order_id = ?", orderID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
