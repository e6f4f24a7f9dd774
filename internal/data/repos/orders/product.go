package orders

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type ProductRepo interface {
	// Upsert inserts each product or overwrites every column of the existing row.
	// Rows sharing a product id collapse to the last one.
	Upsert(dbc dbctx.Context, rows ...*order.Product) error
	GetByIDs(dbc dbctx.Context, productIDs []string) ([]*order.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Upsert(dbc dbctx.Context, rows ...*order.Product) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	rows = lastByProductID(rows)
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		row.UpdatedAt = now
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"seller_item_id",
				"cost",
				"description",
				"name",
				"updated_at",
			}),
		}).
		CreateInBatches(rows, writeBatchSize).Error
}

// lastByProductID keeps the last row per product id, in first-seen order.
// Postgres rejects an ON CONFLICT DO UPDATE that touches one row twice.
func lastByProductID(rows []*order.Product) []*order.Product {
	idx := make(map[string]int, len(rows))
	out := make([]*order.Product, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.ProductID == "" {
			continue
		}
		if i, ok := idx[row.ProductID]; ok {
			out[i] = row
			continue
		}
		idx[row.ProductID] = len(out)
		out = append(out, row)
	}
	return out
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, productIDs []string) ([]*order.Product, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*order.Product
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
