package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID int, xml string) *order.Order {
	tb.Helper()
	o := &order.Order{OrderID: orderID, XML: xml}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, productID string, cost int64) *order.Product {
	tb.Helper()
	p := &order.Product{
		ProductID:    productID,
		SellerItemID: "7302347231110",
		Cost:         decimal.NewFromInt(cost),
		Description:  "seeded " + productID,
		Name:         "Seeded " + productID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func CountRows(tb testing.TB, tx *gorm.DB, model any, where string, args ...any) int64 {
	tb.Helper()
	var n int64
	q := tx.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count rows: %v", err)
	}
	return n
}
