package aggregates

import (
	"context"
	"testing"

	repostestutil "github.com/yungbote/orderdoc-backend/internal/data/repos/testutil"
	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
)

func TestRequireRowCount(t *testing.T) {
	if err := RequireRowCount(3, 3, "links"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireRowCount(2, 3, "links"); err == nil {
		t.Fatalf("expected invariant error")
	}
}

func TestRequireAffected(t *testing.T) {
	if err := RequireAffected(1, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireAffected(0, "gone"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestRowGuardCountsInsideTx(t *testing.T) {
	db := repostestutil.DB(t)
	tx := repostestutil.Tx(t, db)
	ctx := context.Background()
	repostestutil.SeedOrder(t, ctx, tx, 42, "<Order/>")

	g := NewRowGuard(db)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	n, err := g.Count(dbc, "order", "order_id", 42)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count: want=1 got=%d", n)
	}
	ok, err := g.Exists(dbc, "order", "order_id", 43)
	if err != nil || ok {
		t.Fatalf("Exists(missing): ok=%v err=%v", ok, err)
	}
	if _, err := g.Count(dbc, " ", "order_id", 1); err == nil {
		t.Fatalf("Count: expected validation error for empty table")
	}
}
