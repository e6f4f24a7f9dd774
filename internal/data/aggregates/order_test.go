package aggregates_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/data/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/orderdoc-backend/internal/data/repos"
	repostestutil "github.com/yungbote/orderdoc-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/domain/order"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
)

const testSeller = "7302347231110"

type orderHarness struct {
	db    *gorm.DB
	agg   domainagg.OrderDocumentAggregate
	hooks *testutil.HooksRecorder
	deps  aggregates.OrderAggregateDeps
}

func newOrderHarness(t *testing.T, mutate func(*aggregates.OrderAggregateDeps)) *orderHarness {
	t.Helper()
	db := repostestutil.DB(t)
	log := repostestutil.Logger(t)
	hooks := &testutil.HooksRecorder{}
	deps := aggregates.OrderAggregateDeps{
		Base:       aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Orders:     repos.NewOrderRepo(db, log),
		Registered: repos.NewRegisteredOrderRepo(db, log),
		Products:   repos.NewProductRepo(db, log),
		Junction:   repos.NewRegisteredOrderProductRepo(db, log),
		DrawID:     drawSequence(7),
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &orderHarness{db: db, agg: aggregates.NewOrderAggregate(deps), hooks: hooks, deps: deps}
}

// drawSequence yields ids in order and then repeats the last one.
func drawSequence(ids ...int) func() int {
	var mu sync.Mutex
	i := 0
	return func() int {
		mu.Lock()
		defer mu.Unlock()
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}
}

func writeLine(productID string, cost, qty int64) domainagg.OrderWriteLine {
	return domainagg.OrderWriteLine{
		ProductID:   productID,
		Description: "desc " + productID,
		Name:        "name " + productID,
		Cost:        decimal.NewFromInt(cost),
		Quantity:    decimal.NewFromInt(qty),
	}
}

func composeOf(tag string, lines ...domainagg.OrderWriteLine) domainagg.ComposeOrderFunc {
	return func(orderID int) (domainagg.OrderWrite, error) {
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Cost.Mul(l.Quantity))
		}
		return domainagg.OrderWrite{
			XML:       fmt.Sprintf("<Order id=%q>%s</Order>", fmt.Sprint(orderID), tag),
			TotalCost: total,
			SellerID:  testSeller,
			Lines:     lines,
		}, nil
	}
}

func (h *orderHarness) dbc() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func (h *orderHarness) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	return repostestutil.CountRows(t, h.db, model, where, args...)
}

func TestOrderAggregateCreateWritesEveryRow(t *testing.T) {
	h := newOrderHarness(t, nil)
	ctx := context.Background()

	res, err := h.agg.Create(ctx, domainagg.CreateOrderInput{
		Compose: composeOf("first", writeLine("A", 10, 2), writeLine("B", 5, 3)),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.OrderID != 7 {
		t.Fatalf("OrderID: want=7 got=%d", res.OrderID)
	}
	if !res.TotalCost.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("TotalCost: want=35 got=%s", res.TotalCost)
	}

	row, err := h.deps.Orders.GetByID(h.dbc(), 7)
	if err != nil || row == nil {
		t.Fatalf("GetByID: row=%v err=%v", row, err)
	}
	if !strings.Contains(row.XML, "first") {
		t.Fatalf("XML: got=%q", row.XML)
	}
	reg, err := h.deps.Registered.GetByOrderID(h.dbc(), 7)
	if err != nil || reg == nil {
		t.Fatalf("GetByOrderID: row=%v err=%v", reg, err)
	}
	if !reg.Cost.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("registered cost: want=35 got=%s", reg.Cost)
	}
	links, err := h.deps.Junction.ListByOrderID(h.dbc(), 7)
	if err != nil {
		t.Fatalf("ListByOrderID: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("links: want=2 got=%d", len(links))
	}
	products, err := h.deps.Products.GetByIDs(h.dbc(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products: want=2 got=%d", len(products))
	}
	for _, p := range products {
		if p.SellerItemID != testSeller {
			t.Fatalf("SellerItemID: want=%s got=%s", testSeller, p.SellerItemID)
		}
	}

	if len(h.hooks.Operations) != 1 {
		t.Fatalf("operations: want=1 got=%d", len(h.hooks.Operations))
	}
	if op := h.hooks.Operations[0]; op.Name != "Orders.OrderDocument.Create" || op.Status != "success" {
		t.Fatalf("operation: got=%+v", op)
	}
}

func TestOrderAggregateCreateRedrawsTakenID(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.DrawID = drawSequence(7, 7, 9)
	})
	if err := h.db.Create(&order.Order{OrderID: 7, XML: "<taken/>"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 1, 1))})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.OrderID != 9 {
		t.Fatalf("OrderID: want=9 got=%d", res.OrderID)
	}
	row, _ := h.deps.Orders.GetByID(h.dbc(), 7)
	if row == nil || row.XML != "<taken/>" {
		t.Fatalf("existing order overwritten: %+v", row)
	}
}

func TestOrderAggregateCreateGivesUpAfterMaxAttempts(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.MaxIDAttempts = 3
	})
	if err := h.db.Create(&order.Order{OrderID: 7, XML: "<taken/>"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 1, 1))})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("Create: want conflict got=%v", err)
	}
	if len(h.hooks.Conflicts) != 1 {
		t.Fatalf("conflicts: want=1 got=%v", h.hooks.Conflicts)
	}
	if n := h.count(t, &order.Product{}, ""); n != 0 {
		t.Fatalf("products: want=0 got=%d", n)
	}
}

type failingProducts struct {
	repos.ProductRepo
	failOn string
}

func (f failingProducts) Upsert(dbc dbctx.Context, rows ...*order.Product) error {
	for _, row := range rows {
		if row.ProductID == f.failOn {
			return errors.New("disk full")
		}
	}
	return f.ProductRepo.Upsert(dbc, rows...)
}

func TestOrderAggregateLineFailureRollsBackEverything(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.Products = failingProducts{ProductRepo: d.Products, failOn: "C"}
	})
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{
		Compose: composeOf("x", writeLine("A", 1, 1), writeLine("B", 1, 1), writeLine("C", 1, 1)),
	})
	if err == nil {
		t.Fatalf("Create: expected error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Create: error should carry cause, got=%v", err)
	}
	for _, model := range []any{&order.Order{}, &order.RegisteredOrder{}, &order.Product{}, &order.RegisteredOrderProduct{}} {
		if n := h.count(t, model, ""); n != 0 {
			t.Fatalf("%T rows after rollback: want=0 got=%d", model, n)
		}
	}
	if len(h.hooks.Operations) != 1 || h.hooks.Operations[0].Status != string(domainagg.CodeInternal) {
		t.Fatalf("operations: %+v", h.hooks.Operations)
	}
}

func TestOrderAggregateWritesManyLinesInOrder(t *testing.T) {
	h := newOrderHarness(t, nil)
	lines := make([]domainagg.OrderWriteLine, 0, 450)
	for i := range 450 {
		lines = append(lines, writeLine(fmt.Sprintf("P%03d", i), 1, int64(i+1)))
	}
	if _, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{Compose: composeOf("bulk", lines...)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	links, err := h.deps.Junction.ListByOrderID(h.dbc(), 7)
	if err != nil {
		t.Fatalf("ListByOrderID: %v", err)
	}
	if len(links) != len(lines) {
		t.Fatalf("links: want=%d got=%d", len(lines), len(links))
	}
	for i, l := range links {
		if l.ProductID != lines[i].ProductID || !l.Quantity.Equal(lines[i].Quantity) {
			t.Fatalf("link %d: want=%s/%s got=%s/%s", i, lines[i].ProductID, lines[i].Quantity, l.ProductID, l.Quantity)
		}
	}
	if n := h.count(t, &order.Product{}, ""); n != int64(len(lines)) {
		t.Fatalf("products: want=%d got=%d", len(lines), n)
	}
}

func TestOrderAggregateRepeatedProductKeepsLastLine(t *testing.T) {
	h := newOrderHarness(t, nil)
	first := writeLine("A", 10, 1)
	second := writeLine("A", 30, 2)
	second.Name = "renamed"
	if _, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{
		Compose: composeOf("dup", first, writeLine("B", 1, 1), second),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n := h.count(t, &order.RegisteredOrderProduct{}, "order_id = ?", 7); n != 3 {
		t.Fatalf("links: want=3 got=%d", n)
	}
	products, err := h.deps.Products.GetByIDs(h.dbc(), []string{"A"})
	if err != nil || len(products) != 1 {
		t.Fatalf("GetByIDs: %v %v", products, err)
	}
	if !products[0].Cost.Equal(decimal.NewFromInt(30)) || products[0].Name != "renamed" {
		t.Fatalf("product A: want=30/renamed got=%s/%s", products[0].Cost, products[0].Name)
	}
}

func TestOrderAggregateComposeFailureWritesNothing(t *testing.T) {
	h := newOrderHarness(t, nil)
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{
		Compose: func(int) (domainagg.OrderWrite, error) { return domainagg.OrderWrite{}, errors.New("render failed") },
	})
	if err == nil {
		t.Fatalf("Create: expected error")
	}
	if n := h.count(t, &order.Order{}, ""); n != 0 {
		t.Fatalf("orders: want=0 got=%d", n)
	}
}

func TestOrderAggregateCreateRequiresCompose(t *testing.T) {
	h := newOrderHarness(t, nil)
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("Create: want validation got=%v", err)
	}
}

func TestOrderAggregateReplaceSwapsRows(t *testing.T) {
	h := newOrderHarness(t, nil)
	ctx := context.Background()
	if _, err := h.agg.Create(ctx, domainagg.CreateOrderInput{Compose: composeOf("old", writeLine("A", 10, 1))}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	res, err := h.agg.Replace(ctx, domainagg.ReplaceOrderInput{OrderID: 7, Compose: composeOf("new", writeLine("B", 4, 2))})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if res.OrderID != 7 || !res.TotalCost.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("Replace result: %+v", res)
	}
	row, _ := h.deps.Orders.GetByID(h.dbc(), 7)
	if row == nil || !strings.Contains(row.XML, "new") {
		t.Fatalf("XML after replace: %+v", row)
	}
	links, _ := h.deps.Junction.ListByOrderID(h.dbc(), 7)
	if len(links) != 1 || links[0].ProductID != "B" {
		t.Fatalf("links after replace: %+v", links)
	}
	if n := h.count(t, &order.Product{}, "product_id = ?", "A"); n != 1 {
		t.Fatalf("product A should survive replace: got=%d", n)
	}
}

func TestOrderAggregateFailedReplaceKeepsOldOrder(t *testing.T) {
	h := newOrderHarness(t, nil)
	ctx := context.Background()
	if _, err := h.agg.Create(ctx, domainagg.CreateOrderInput{Compose: composeOf("old", writeLine("A", 10, 1))}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := h.agg.Replace(ctx, domainagg.ReplaceOrderInput{
		OrderID: 7,
		Compose: func(int) (domainagg.OrderWrite, error) { return domainagg.OrderWrite{}, errors.New("render failed") },
	})
	if err == nil {
		t.Fatalf("Replace: expected error")
	}
	row, _ := h.deps.Orders.GetByID(h.dbc(), 7)
	if row == nil || !strings.Contains(row.XML, "old") {
		t.Fatalf("old order lost: %+v", row)
	}
	if n := h.count(t, &order.RegisteredOrderProduct{}, "order_id = ?", 7); n != 1 {
		t.Fatalf("old links: want=1 got=%d", n)
	}
}

func TestOrderAggregateReplaceMissing(t *testing.T) {
	h := newOrderHarness(t, nil)
	_, err := h.agg.Replace(context.Background(), domainagg.ReplaceOrderInput{OrderID: 404, Compose: composeOf("x")})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("Replace: want not_found got=%v", err)
	}
	if n := h.count(t, &order.Order{}, ""); n != 0 {
		t.Fatalf("orders: want=0 got=%d", n)
	}
}

func TestOrderAggregateDeleteCascades(t *testing.T) {
	h := newOrderHarness(t, nil)
	ctx := context.Background()
	if _, err := h.agg.Create(ctx, domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 1, 1), writeLine("B", 2, 1))}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.agg.Delete(ctx, domainagg.DeleteOrderInput{OrderID: 7}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := h.count(t, &order.Order{}, ""); n != 0 {
		t.Fatalf("orders: want=0 got=%d", n)
	}
	if n := h.count(t, &order.RegisteredOrder{}, ""); n != 0 {
		t.Fatalf("registered orders: want=0 got=%d", n)
	}
	if n := h.count(t, &order.RegisteredOrderProduct{}, ""); n != 0 {
		t.Fatalf("links: want=0 got=%d", n)
	}
	if n := h.count(t, &order.Product{}, ""); n != 2 {
		t.Fatalf("products: want=2 got=%d", n)
	}
	if err := h.agg.Delete(ctx, domainagg.DeleteOrderInput{OrderID: 7}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second Delete: want not_found got=%v", err)
	}
}

func TestOrderAggregateProductLastWriterWins(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.DrawID = drawSequence(1, 2)
	})
	ctx := context.Background()
	if _, err := h.agg.Create(ctx, domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 10, 1))}); err != nil {
		t.Fatalf("Create 1: %v", err)
	}
	if _, err := h.agg.Create(ctx, domainagg.CreateOrderInput{Compose: composeOf("y", writeLine("A", 12, 1))}); err != nil {
		t.Fatalf("Create 2: %v", err)
	}
	products, err := h.deps.Products.GetByIDs(h.dbc(), []string{"A"})
	if err != nil || len(products) != 1 {
		t.Fatalf("GetByIDs: %v %v", products, err)
	}
	if !products[0].Cost.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("product cost: want=12 got=%s", products[0].Cost)
	}
}

func TestOrderAggregateCreateBatch(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.DrawID = drawSequence(3, 5)
	})
	res, err := h.agg.CreateBatch(context.Background(), []domainagg.CreateOrderInput{
		{Compose: composeOf("a", writeLine("A", 1, 1))},
		{Compose: composeOf("b", writeLine("B", 1, 1))},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(res) != 2 || res[0].OrderID != 3 || res[1].OrderID != 5 {
		t.Fatalf("CreateBatch ids: %+v", res)
	}
}

func TestOrderAggregateCreateBatchIsAllOrNothing(t *testing.T) {
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.DrawID = drawSequence(3, 5)
	})
	_, err := h.agg.CreateBatch(context.Background(), []domainagg.CreateOrderInput{
		{Compose: composeOf("a", writeLine("A", 1, 1))},
		{Compose: func(int) (domainagg.OrderWrite, error) { return domainagg.OrderWrite{}, errors.New("render failed") }},
	})
	if err == nil {
		t.Fatalf("CreateBatch: expected error")
	}
	if n := h.count(t, &order.Order{}, ""); n != 0 {
		t.Fatalf("orders: want=0 got=%d", n)
	}
	if _, err := h.agg.CreateBatch(context.Background(), []domainagg.CreateOrderInput{{}}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("CreateBatch(nil compose): want validation got=%v", err)
	}
}

func TestOrderAggregateTxBeginFailure(t *testing.T) {
	runner := &testutil.InjectedTxRunner{FailBegin: errors.New("database is locked")}
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		d.Base.Runner = runner
	})
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 1, 1))})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("Create: want retryable got=%v", err)
	}
	if runner.BeginCalls != 1 || runner.CommitCalls != 0 {
		t.Fatalf("runner calls: begin=%d commit=%d", runner.BeginCalls, runner.CommitCalls)
	}
	if len(h.hooks.Retries) != 1 {
		t.Fatalf("retries: want=1 got=%v", h.hooks.Retries)
	}
	if n := h.count(t, &order.Order{}, ""); n != 0 {
		t.Fatalf("orders: want=0 got=%d", n)
	}
}

func TestOrderAggregateMissingRepos(t *testing.T) {
	agg := aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{})
	err := agg.Delete(context.Background(), domainagg.DeleteOrderInput{OrderID: 1})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("Delete: want internal got=%v", err)
	}
}

func TestOrderAggregateCommitFailureRollsBackRealTx(t *testing.T) {
	var runner *testutil.InjectedTxRunner
	h := newOrderHarness(t, func(d *aggregates.OrderAggregateDeps) {
		runner = &testutil.InjectedTxRunner{
			Inner:      aggregates.NewGormTxRunner(d.Base.DB, 0),
			FailCommit: errors.New("commit failed"),
		}
		d.Base.Runner = runner
	})
	_, err := h.agg.Create(context.Background(), domainagg.CreateOrderInput{Compose: composeOf("x", writeLine("A", 1, 1))})
	if err == nil {
		t.Fatalf("Create: expected error")
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("rollbacks: want=1 got=%d", runner.RollbackCalls)
	}
	for _, model := range []any{&order.Order{}, &order.Product{}, &order.RegisteredOrderProduct{}} {
		if n := h.count(t, model, ""); n != 0 {
			t.Fatalf("%T rows: want=0 got=%d", model, n)
		}
	}
	if got := h.hooks.Statuses("Orders.OrderDocument.Create"); len(got) != 1 || got[0] != string(domainagg.CodeInternal) {
		t.Fatalf("statuses: %v", got)
	}
}

func TestOrderAggregateOwnsItsTransaction(t *testing.T) {
	h := newOrderHarness(t, nil)
	c := h.agg.Contract()
	if c.Name != domainagg.OrderAggregateContract.Name || !c.RequiresAggregateOwnedTx() {
		t.Fatalf("Contract: got=%+v", c)
	}
}
