package aggregates

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/yungbote/orderdoc-backend/internal/data/repos"
	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
)

const (
	// MaxOrderID is the exclusive upper bound of generated order ids.
	MaxOrderID = 1_000_000

	defaultMaxIDAttempts = 16
	orderTable           = "order"
	junctionTable        = "registered_order_product"
)

type OrderAggregateDeps struct {
	Base BaseDeps

	Orders     repos.OrderRepo
	Registered repos.RegisteredOrderRepo
	Products   repos.ProductRepo
	Junction   repos.RegisteredOrderProductRepo

	// MaxIDAttempts bounds order id draws before Create gives up with a conflict.
	MaxIDAttempts int
	// DrawID returns a candidate order id. Defaults to a uniform draw in [0, MaxOrderID).
	DrawID func() int
}

type orderAggregate struct {
	deps OrderAggregateDeps
}

func NewOrderAggregate(deps OrderAggregateDeps) domainagg.OrderDocumentAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.MaxIDAttempts <= 0 {
		deps.MaxIDAttempts = defaultMaxIDAttempts
	}
	if deps.DrawID == nil {
		deps.DrawID = func() int { return rand.IntN(MaxOrderID) }
	}
	return &orderAggregate{deps: deps}
}

func (a *orderAggregate) Contract() domainagg.Contract {
	return domainagg.OrderAggregateContract
}

func (a *orderAggregate) Create(ctx context.Context, in domainagg.CreateOrderInput) (domainagg.CreateOrderResult, error) {
	const op = OpOrderCreate
	var out domainagg.CreateOrderResult
	if err := a.ready(op); err != nil {
		return out, err
	}
	if in.Compose == nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing compose func", nil)
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		id, err := a.allocateID(dbc)
		if err != nil {
			return err
		}
		res, err := a.write(dbc, id, in.OwnerEmail, in.Compose)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (a *orderAggregate) CreateBatch(ctx context.Context, in []domainagg.CreateOrderInput) ([]domainagg.CreateOrderResult, error) {
	const op = OpOrderCreateBatch
	if err := a.ready(op); err != nil {
		return nil, err
	}
	for i, item := range in {
		if item.Compose == nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("missing compose func at index %d", i), nil)
		}
	}
	var out []domainagg.CreateOrderResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = make([]domainagg.CreateOrderResult, 0, len(in))
		for _, item := range in {
			id, err := a.allocateID(dbc)
			if err != nil {
				return err
			}
			res, err := a.write(dbc, id, item.OwnerEmail, item.Compose)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *orderAggregate) Replace(ctx context.Context, in domainagg.ReplaceOrderInput) (domainagg.CreateOrderResult, error) {
	const op = OpOrderReplace
	var out domainagg.CreateOrderResult
	if err := a.ready(op); err != nil {
		return out, err
	}
	if in.Compose == nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing compose func", nil)
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		prev, err := a.deleteExisting(dbc, op, in.OrderID)
		if err != nil {
			return err
		}
		res, err := a.write(dbc, in.OrderID, prev.OwnerEmail, in.Compose)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (a *orderAggregate) Delete(ctx context.Context, in domainagg.DeleteOrderInput) error {
	const op = OpOrderDelete
	if err := a.ready(op); err != nil {
		return err
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		_, err := a.deleteExisting(dbc, op, in.OrderID)
		return err
	})
}

func (a *orderAggregate) ready(op string) error {
	if a.deps.Orders == nil || a.deps.Registered == nil || a.deps.Products == nil || a.deps.Junction == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "order aggregate repos not configured", nil)
	}
	return nil
}

// allocateID draws ids until one is free in the order table.
func (a *orderAggregate) allocateID(dbc dbctx.Context) (int, error) {
	for attempt := 1; attempt <= a.deps.MaxIDAttempts; attempt++ {
		id := a.deps.DrawID()
		if id < 0 || id >= MaxOrderID {
			return 0, InvariantError(fmt.Sprintf("order id %d outside [0, %d)", id, MaxOrderID))
		}
		taken, err := a.deps.Base.Guard.Exists(dbc, orderTable, "order_id", id)
		if err != nil {
			return 0, err
		}
		if !taken {
			return id, nil
		}
		a.deps.Base.Log.Debug("order id collision", "order_id", id, "attempt", attempt)
	}
	return 0, ConflictError(fmt.Sprintf("no free order id after %d attempts", a.deps.MaxIDAttempts))
}

// deleteExisting removes the order and returns the row it removed.
func (a *orderAggregate) deleteExisting(dbc dbctx.Context, op string, orderID int) (*order.Order, error) {
	prev, err := a.deps.Orders.GetByID(dbc, orderID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, domainagg.NotFound(op, orderID)
	}
	n, err := a.deps.Orders.Delete(dbc, orderID)
	if err != nil {
		return nil, err
	}
	if err := RequireAffected(n, fmt.Sprintf("order %d changed during delete", orderID)); err != nil {
		return nil, err
	}
	return prev, nil
}

// write persists the order row, its registered cost and every line inside dbc.
func (a *orderAggregate) write(dbc dbctx.Context, orderID int, owner string, compose domainagg.ComposeOrderFunc) (domainagg.CreateOrderResult, error) {
	var out domainagg.CreateOrderResult
	w, err := compose(orderID)
	if err != nil {
		return out, err
	}
	if err := a.deps.Orders.Create(dbc, &order.Order{OrderID: orderID, XML: w.XML, OwnerEmail: owner}); err != nil {
		return out, err
	}
	if err := a.deps.Registered.Create(dbc, &order.RegisteredOrder{OrderID: orderID, Cost: w.TotalCost}); err != nil {
		return out, err
	}
	if err := a.writeLines(dbc, orderID, w.SellerID, w.Lines); err != nil {
		return out, err
	}
	n, err := a.deps.Base.Guard.Count(dbc, junctionTable, "order_id", orderID)
	if err != nil {
		return out, err
	}
	if err := RequireRowCount(n, int64(len(w.Lines)), "order product links"); err != nil {
		return out, err
	}
	out.OrderID = orderID
	out.TotalCost = w.TotalCost
	return out, nil
}

// writeLines stores every line as one product upsert and one junction insert.
// Statements on a transaction's connection cannot overlap, so lines are
// gathered first and written set-wise.
func (a *orderAggregate) writeLines(dbc dbctx.Context, orderID int, sellerID string, lines []domainagg.OrderWriteLine) error {
	if len(lines) == 0 {
		return nil
	}
	products := make([]*order.Product, 0, len(lines))
	links := make([]*order.RegisteredOrderProduct, 0, len(lines))
	for _, line := range lines {
		products = append(products, &order.Product{
			ProductID:    line.ProductID,
			SellerItemID: sellerID,
			Cost:         line.Cost,
			Description:  line.Description,
			Name:         line.Name,
		})
		links = append(links, &order.RegisteredOrderProduct{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if err := a.deps.Products.Upsert(dbc, products...); err != nil {
		return fmt.Errorf("upsert %d products: %w", len(products), err)
	}
	if err := a.deps.Junction.Create(dbc, links...); err != nil {
		return fmt.Errorf("link %d products to order %d: %w", len(links), orderID, err)
	}
	return nil
}
