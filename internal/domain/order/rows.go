package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order stores the rendered UBL document. The XML is served verbatim and never regenerated.
// OwnerEmail is empty for guest orders.
type Order struct {
	OrderID    int       `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id"`
	XML        string    `gorm:"column:xml;type:text;not null" json:"xml"`
	OwnerEmail string    `gorm:"column:owner_email;type:text;not null;default:'';index" json:"owner_email"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Order) TableName() string { return "order" }

// RegisteredOrder records the total cost (payable amount plus tax) of an order.
type RegisteredOrder struct {
	OrderID int             `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id"`
	Cost    decimal.Decimal `gorm:"column:cost;type:numeric;not null" json:"cost"`

	Order *Order `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RegisteredOrder) TableName() string { return "registered_order" }

// Product is shared by every order that references its item id. The most recent write wins.
type Product struct {
	ProductID    string          `gorm:"column:product_id;primaryKey" json:"product_id"`
	SellerItemID string          `gorm:"column:seller_item_id;type:text;index" json:"seller_item_id"`
	Cost         decimal.Decimal `gorm:"column:cost;type:numeric;not null" json:"cost"`
	Description  string          `gorm:"column:description;type:text" json:"description"`
	Name         string          `gorm:"column:name;type:text" json:"name"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// RegisteredOrderProduct links an order line to its product. The surrogate id lets one
// order reference the same product on several lines.
type RegisteredOrderProduct struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   int             `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID string          `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric;not null" json:"quantity"`

	Order   *Order   `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (RegisteredOrderProduct) TableName() string { return "registered_order_product" }
