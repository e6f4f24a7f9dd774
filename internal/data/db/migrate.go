package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&order.Order{},
		&order.RegisteredOrder{},
		&order.Product{},
		&order.RegisteredOrderProduct{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureOrderIndexes(db)
}

func EnsureOrderIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registered_order_product_order_product
		ON registered_order_product(order_id, product_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_registered_order_product_order_product: %w", err)
	}
	return nil
}
