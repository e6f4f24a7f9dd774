package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/orderdoc-backend/internal/clients/redis"
	"github.com/yungbote/orderdoc-backend/internal/data/repos"
	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

const (
	defaultListFanout = 8
	defaultListLimit  = 100
)

// OrderSummary is one entry of an owner's order list.
type OrderSummary struct {
	OrderID   int             `json:"orderId"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"createdAt"`
	Lines     []LineSummary   `json:"lines"`
}

// LineSummary names the product as it is stored now, not as it was ordered.
type LineSummary struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// OrderQueryService reads stored orders, optionally through an XML cache.
type OrderQueryService interface {
	Exists(ctx context.Context, orderID int) (bool, error)
	XML(ctx context.Context, orderID int) (string, error)
	List(ctx context.Context, ownerEmail string) ([]OrderSummary, error)
	// Invalidate drops any cached document for orderID. Failures are logged only.
	Invalidate(ctx context.Context, orderID int)
}

type OrderQueryDeps struct {
	Orders     repos.OrderRepo
	Registered repos.RegisteredOrderRepo
	Junction   repos.RegisteredOrderProductRepo
	Products   repos.ProductRepo
	// Cache is optional. Without it every read goes to the store.
	Cache   redis.XMLCache
	Metrics *observability.Metrics

	// FanoutLimit bounds concurrent per-order reads in List.
	FanoutLimit int
	// ListLimit caps the orders List returns.
	ListLimit int
}

type orderQueryService struct {
	log  *logger.Logger
	deps OrderQueryDeps
}

func NewOrderQueryService(baseLog *logger.Logger, deps OrderQueryDeps) OrderQueryService {
	if deps.FanoutLimit <= 0 {
		deps.FanoutLimit = defaultListFanout
	}
	if deps.ListLimit <= 0 {
		deps.ListLimit = defaultListLimit
	}
	return &orderQueryService{
		log:  baseLog.With("service", "OrderQueryService"),
		deps: deps,
	}
}

func (s *orderQueryService) Exists(ctx context.Context, orderID int) (bool, error) {
	ok, err := s.deps.Orders.Exists(dbctx.Context{Ctx: ctx}, orderID)
	if err != nil {
		return false, domainagg.Wrap(domainagg.CodeInternal, "OrderQuery.Exists", err)
	}
	return ok, nil
}

// XML reads through the cache. The generation is taken before the store read
// so a fill racing a Replace or Delete is dropped instead of resurrecting the old document.
func (s *orderQueryService) XML(ctx context.Context, orderID int) (string, error) {
	const op = "OrderQuery.XML"
	cache := s.deps.Cache
	fill := false
	var gen int64
	if cache != nil {
		xml, hit, err := cache.Get(ctx, orderID)
		switch {
		case err != nil:
			s.deps.Metrics.IncXMLCache("error")
			s.log.Warn("xml cache read failed", "order_id", orderID, "error", err)
		case hit:
			s.deps.Metrics.IncXMLCache("hit")
			return xml, nil
		default:
			s.deps.Metrics.IncXMLCache("miss")
			if gen, err = cache.Generation(ctx, orderID); err != nil {
				s.log.Warn("xml cache generation read failed", "order_id", orderID, "error", err)
			} else {
				fill = true
			}
		}
	}
	row, err := s.deps.Orders.GetByID(dbctx.Context{Ctx: ctx}, orderID)
	if err != nil {
		return "", domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if row == nil {
		return "", domainagg.NotFound(op, orderID)
	}
	if fill {
		ok, err := cache.Fill(ctx, orderID, row.XML, gen)
		switch {
		case err != nil:
			s.log.Warn("xml cache write failed", "order_id", orderID, "error", err)
		case !ok:
			s.deps.Metrics.IncXMLCache("stale")
			s.log.Debug("xml cache fill dropped after invalidate", "order_id", orderID)
		}
	}
	return row.XML, nil
}

// List returns the owner's orders newest first. Per-order reads fan out on the
// pool; an order deleted mid-listing is left out.
func (s *orderQueryService) List(ctx context.Context, ownerEmail string) ([]OrderSummary, error) {
	const op = "OrderQuery.List"
	if ownerEmail == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing owner email", nil)
	}
	if s.deps.Registered == nil || s.deps.Junction == nil || s.deps.Products == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "order list repos not configured", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.deps.Orders.ListByOwner(dbc, ownerEmail, s.deps.ListLimit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	summaries := make([]*OrderSummary, len(rows))
	links := make([][]*order.RegisteredOrderProduct, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.FanoutLimit)
	for i, row := range rows {
		g.Go(func() error {
			rdbc := dbctx.Context{Ctx: gctx}
			reg, err := s.deps.Registered.GetByOrderID(rdbc, row.OrderID)
			if err != nil {
				return fmt.Errorf("registered order %d: %w", row.OrderID, err)
			}
			if reg == nil {
				return nil
			}
			l, err := s.deps.Junction.ListByOrderID(rdbc, row.OrderID)
			if err != nil {
				return fmt.Errorf("lines of order %d: %w", row.OrderID, err)
			}
			summaries[i] = &OrderSummary{OrderID: row.OrderID, Cost: reg.Cost, CreatedAt: row.CreatedAt}
			links[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	names, err := s.productNames(dbc, links)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	out := make([]OrderSummary, 0, len(rows))
	for i, sum := range summaries {
		if sum == nil {
			continue
		}
		sum.Lines = make([]LineSummary, 0, len(links[i]))
		for _, l := range links[i] {
			sum.Lines = append(sum.Lines, LineSummary{ProductID: l.ProductID, Name: names[l.ProductID], Quantity: l.Quantity})
		}
		out = append(out, *sum)
	}
	return out, nil
}

func (s *orderQueryService) productNames(dbc dbctx.Context, links [][]*order.RegisteredOrderProduct) (map[string]string, error) {
	seen := map[string]struct{}{}
	var ids []string
	for _, ls := range links {
		for _, l := range ls {
			if _, ok := seen[l.ProductID]; !ok {
				seen[l.ProductID] = struct{}{}
				ids = append(ids, l.ProductID)
			}
		}
	}
	products, err := s.deps.Products.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ProductID] = p.Name
	}
	return names, nil
}

func (s *orderQueryService) Invalidate(ctx context.Context, orderID int) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx, orderID); err != nil {
		s.log.Warn("xml cache invalidate failed", "order_id", orderID, "error", err)
	}
}
