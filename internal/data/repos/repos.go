package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/data/repos/orders"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type OrderRepo = orders.OrderRepo
type RegisteredOrderRepo = orders.RegisteredOrderRepo
type ProductRepo = orders.ProductRepo
type RegisteredOrderProductRepo = orders.RegisteredOrderProductRepo

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return orders.NewOrderRepo(db, baseLog)
}
func NewRegisteredOrderRepo(db *gorm.DB, baseLog *logger.Logger) RegisteredOrderRepo {
	return orders.NewRegisteredOrderRepo(db, baseLog)
}
func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return orders.NewProductRepo(db, baseLog)
}
func NewRegisteredOrderProductRepo(db *gorm.DB, baseLog *logger.Logger) RegisteredOrderProductRepo {
	return orders.NewRegisteredOrderProductRepo(db, baseLog)
}
