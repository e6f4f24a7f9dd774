package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/data/repos"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

type Repos struct {
	Order                  repos.OrderRepo
	RegisteredOrder        repos.RegisteredOrderRepo
	Product                repos.ProductRepo
	RegisteredOrderProduct repos.RegisteredOrderProductRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Order:                  repos.NewOrderRepo(db, log),
		RegisteredOrder:        repos.NewRegisteredOrderRepo(db, log),
		Product:                repos.NewProductRepo(db, log),
		RegisteredOrderProduct: repos.NewRegisteredOrderProductRepo(db, log),
	}
}
