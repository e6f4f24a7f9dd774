package orders

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

// writeBatchSize caps rows per multi-row INSERT.
const writeBatchSize = 200

type OrderRepo interface {
	Create(dbc dbctx.Context, row *order.Order) error
	Exists(dbc dbctx.Context, orderID int) (bool, error)
	GetByID(dbc dbctx.Context, orderID int) (*order.Order, error)
	// ListByOwner returns the owner's orders newest first, without their documents.
	ListByOwner(dbc dbctx.Context, ownerEmail string, limit int) ([]*order.Order, error)
	Delete(dbc dbctx.Context, orderID int) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(dbc dbctx.Context, row *order.Order) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *orderRepo) Exists(dbc dbctx.Context, orderID int) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&order.Order{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID returns nil, nil when the order does not exist.
func (r *orderRepo) GetByID(dbc dbctx.Context, orderID int) (*order.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []order.Order
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

func (r *orderRepo) ListByOwner(dbc dbctx.Context, ownerEmail string, limit int) ([]*order.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*order.Order
	if ownerEmail == "" {
		return results, nil
	}
	q := t.WithContext(dbc.Ctx).
		Select("order_id", "owner_email", "created_at").
		Where("owner_email = ?", ownerEmail).
		Order("created_at DESC").
		Order("order_id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes the order row. Registered order and junction rows cascade.
func (r *orderRepo) Delete(dbc dbctx.Context, orderID int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("order_id = ?", orderID).
		Delete(&order.Order{})
	return res.RowsAffected, res.Error
}
