package aggregates

import (
	"context"

	"github.com/shopspring/decimal"
)

var OrderAggregateContract = Contract{
	Name:             "Orders.OrderDocumentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns order, registered order, product upsert and order-product junction rows as one atomic write.",
}

// OrderDocumentAggregate owns the order write invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type OrderDocumentAggregate interface {
	Aggregate

	// Create allocates an order id and writes every row of one order atomically.
	Create(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error)

	// CreateBatch creates several orders in list order inside one transaction.
	CreateBatch(ctx context.Context, in []CreateOrderInput) ([]CreateOrderResult, error)

	// Replace deletes and recreates an order under the same id atomically.
	// The order keeps its owner.
	Replace(ctx context.Context, in ReplaceOrderInput) (CreateOrderResult, error)

	// Delete removes the order row; dependent rows go with it, products stay.
	Delete(ctx context.Context, in DeleteOrderInput) error
}

// ComposeOrderFunc renders the rows for an order once its id is known.
type ComposeOrderFunc func(orderID int) (OrderWrite, error)

// OrderWrite is everything persisted for one order.
type OrderWrite struct {
	XML       string
	TotalCost decimal.Decimal
	SellerID  string
	Lines     []OrderWriteLine
}

// OrderWriteLine is the product + junction data for one order line.
type OrderWriteLine struct {
	ProductID   string
	Description string
	Name        string
	Cost        decimal.Decimal
	Quantity    decimal.Decimal
}

type CreateOrderInput struct {
	// OwnerEmail is the creating caller. Empty for guest orders.
	OwnerEmail string
	Compose    ComposeOrderFunc
}

type CreateOrderResult struct {
	OrderID   int
	TotalCost decimal.Decimal
}

type ReplaceOrderInput struct {
	OrderID int
	Compose ComposeOrderFunc
}

type DeleteOrderInput struct {
	OrderID int
}
