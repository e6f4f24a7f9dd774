package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/modules/orders/document"
	"github.com/yungbote/orderdoc-backend/internal/modules/orders/lines"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/ctxutil"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

// CreateInput is one order submission. CSV, when set, supplies the order lines.
type CreateInput struct {
	Aggregate order.Aggregate
	CSV       string
	Policy    lines.LinePolicy
}

type CreateResult struct {
	OrderID int `json:"orderId"`
}

type BulkResult struct {
	OrderIDs []int `json:"orderIds"`
}

// OrderService owns the order document lifecycle. Creates record the caller
// from ctxutil request data as the owner; without it the order is a guest order.
type OrderService interface {
	Create(ctx context.Context, in CreateInput) (CreateResult, error)
	CreateBulk(ctx context.Context, aggs []order.Aggregate) (BulkResult, error)
	Replace(ctx context.Context, orderID int, agg order.Aggregate) (CreateResult, error)
	Delete(ctx context.Context, orderID int) error
	IsValid(ctx context.Context, orderID int) (bool, error)
	FetchXML(ctx context.Context, orderID int) (string, error)
	// List returns the orders created by the authenticated caller.
	List(ctx context.Context) ([]OrderSummary, error)
}

type orderService struct {
	log     *logger.Logger
	agg     domainagg.OrderDocumentAggregate
	query   OrderQueryService
	metrics *observability.Metrics
	now     func() time.Time
}

func NewOrderService(
	baseLog *logger.Logger,
	agg domainagg.OrderDocumentAggregate,
	query OrderQueryService,
	metrics *observability.Metrics,
	now func() time.Time,
) OrderService {
	if now == nil {
		now = time.Now
	}
	return &orderService{
		log:     baseLog.With("service", "OrderService"),
		agg:     agg,
		query:   query,
		metrics: metrics,
		now:     now,
	}
}

func (s *orderService) Create(ctx context.Context, in CreateInput) (out CreateResult, err error) {
	const op = "OrderService.Create"
	ctx, end := observability.StartSpan(ctx, op, attribute.Bool("order.csv", in.CSV != ""))
	defer end(&err)

	if err := s.ready(op); err != nil {
		return out, err
	}
	agg := in.Aggregate
	if in.CSV != "" {
		parsed, res := lines.Parse(in.CSV)
		if !res.Valid {
			return out, domainagg.NewError(domainagg.CodeValidation, op, res.Error, nil)
		}
		if err := lines.ApplyCSV(&agg, parsed, in.Policy); err != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
	}
	if err := validate(op, agg); err != nil {
		return out, err
	}

	owner := callerEmail(ctx)
	res, err := s.agg.Create(ctx, domainagg.CreateOrderInput{OwnerEmail: owner, Compose: s.compose(agg)})
	if err != nil {
		return out, err
	}
	s.metrics.IncOrders("created", 1)
	s.log.With(ctxutil.TraceFields(ctx)...).Info("order created", "order_id", res.OrderID, "lines", len(agg.OrderLines), "total_cost", res.TotalCost.String(), "guest", owner == "")
	return CreateResult{OrderID: res.OrderID}, nil
}

func (s *orderService) CreateBulk(ctx context.Context, aggs []order.Aggregate) (out BulkResult, err error) {
	const op = "OrderService.CreateBulk"
	ctx, end := observability.StartSpan(ctx, op, attribute.Int("order.count", len(aggs)))
	defer end(&err)

	if err := s.ready(op); err != nil {
		return out, err
	}
	owner := callerEmail(ctx)
	inputs := make([]domainagg.CreateOrderInput, 0, len(aggs))
	for i, agg := range aggs {
		if err := order.Validate(agg); err != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("orders[%d]: %s", i, err.Error()), err)
		}
		inputs = append(inputs, domainagg.CreateOrderInput{OwnerEmail: owner, Compose: s.compose(agg)})
	}
	out.OrderIDs = []int{}
	if len(inputs) == 0 {
		return out, nil
	}
	res, err := s.agg.CreateBatch(ctx, inputs)
	if err != nil {
		return out, err
	}
	for _, r := range res {
		out.OrderIDs = append(out.OrderIDs, r.OrderID)
	}
	s.metrics.IncOrders("created", len(res))
	s.log.With(ctxutil.TraceFields(ctx)...).Info("orders created in bulk", "count", len(res))
	return out, nil
}

func (s *orderService) Replace(ctx context.Context, orderID int, agg order.Aggregate) (out CreateResult, err error) {
	const op = "OrderService.Replace"
	ctx, end := observability.StartSpan(ctx, op, attribute.Int("order.id", orderID))
	defer end(&err)

	if err := s.ready(op); err != nil {
		return out, err
	}
	if err := validate(op, agg); err != nil {
		return out, err
	}
	res, err := s.agg.Replace(ctx, domainagg.ReplaceOrderInput{OrderID: orderID, Compose: s.compose(agg)})
	if err != nil {
		return out, err
	}
	s.query.Invalidate(ctx, orderID)
	s.metrics.IncOrders("replaced", 1)
	s.log.With(ctxutil.TraceFields(ctx)...).Info("order replaced", "order_id", orderID, "lines", len(agg.OrderLines))
	return CreateResult{OrderID: res.OrderID}, nil
}

func (s *orderService) Delete(ctx context.Context, orderID int) (err error) {
	const op = "OrderService.Delete"
	ctx, end := observability.StartSpan(ctx, op, attribute.Int("order.id", orderID))
	defer end(&err)

	if err := s.ready(op); err != nil {
		return err
	}
	if err := s.agg.Delete(ctx, domainagg.DeleteOrderInput{OrderID: orderID}); err != nil {
		return err
	}
	s.query.Invalidate(ctx, orderID)
	s.metrics.IncOrders("deleted", 1)
	s.log.With(ctxutil.TraceFields(ctx)...).Info("order deleted", "order_id", orderID)
	return nil
}

// IsValid reports whether orderID names a stored order. Callers that act on
// the answer race concurrent deletes; Replace and Delete re-check on their own.
func (s *orderService) IsValid(ctx context.Context, orderID int) (bool, error) {
	if s.query == nil {
		return false, domainagg.NewError(domainagg.CodeInternal, "OrderService.IsValid", "order query not configured", nil)
	}
	return s.query.Exists(ctx, orderID)
}

// FetchXML returns the stored document verbatim.
func (s *orderService) FetchXML(ctx context.Context, orderID int) (xml string, err error) {
	const op = "OrderService.FetchXML"
	ctx, end := observability.StartSpan(ctx, op, attribute.Int("order.id", orderID))
	defer end(&err)

	if s.query == nil {
		return "", domainagg.NewError(domainagg.CodeInternal, op, "order query not configured", nil)
	}
	return s.query.XML(ctx, orderID)
}

func (s *orderService) List(ctx context.Context) (out []OrderSummary, err error) {
	const op = "OrderService.List"
	ctx, end := observability.StartSpan(ctx, op)
	defer end(&err)

	if s.query == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "order query not configured", nil)
	}
	owner := callerEmail(ctx)
	if owner == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "caller email required", nil)
	}
	return s.query.List(ctx, owner)
}

func callerEmail(ctx context.Context) string {
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		return rd.CallerEmail
	}
	return ""
}

func (s *orderService) ready(op string) error {
	if s.agg == nil || s.query == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "order service not configured", nil)
	}
	return nil
}

// compose defers rendering until the aggregate has drawn an order id.
func (s *orderService) compose(agg order.Aggregate) domainagg.ComposeOrderFunc {
	return func(orderID int) (domainagg.OrderWrite, error) {
		doc, err := document.Build(agg, orderID, s.now())
		if err != nil {
			return domainagg.OrderWrite{}, fmt.Errorf("build order document: %w", err)
		}
		s.metrics.ObserveDocumentSize(len(doc.XML))
		w := domainagg.OrderWrite{
			XML:       doc.XML,
			TotalCost: doc.TotalCost,
			SellerID:  agg.Seller.SellerID,
			Lines:     make([]domainagg.OrderWriteLine, 0, len(agg.OrderLines)),
		}
		for _, l := range agg.OrderLines {
			w.Lines = append(w.Lines, domainagg.OrderWriteLine{
				ProductID:   string(l.LineItem.Item.ItemID),
				Description: l.LineItem.Item.Description,
				Name:        l.LineItem.Item.Name,
				Cost:        l.LineItem.Price,
				Quantity:    l.LineItem.Quantity,
			})
		}
		return w, nil
	}
}

func validate(op string, agg order.Aggregate) error {
	if err := order.Validate(agg); err != nil {
		return domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	return nil
}
