package aggregates

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/orderdoc-backend/internal/platform/dbctx"
)

// RowGuard answers invariant-scoped reads inside a write transaction.
type RowGuard struct {
	db *gorm.DB
}

func NewRowGuard(db *gorm.DB) RowGuard {
	return RowGuard{db: db}
}

func (g RowGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// Count returns the number of rows in table where column = value.
func (g RowGuard) Count(dbc dbctx.Context, table, column string, value any) (int64, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return 0, err
	}
	table = strings.TrimSpace(table)
	column = strings.TrimSpace(column)
	if table == "" || column == "" {
		return 0, ValidationError("table and column are required for Count")
	}
	var n int64
	if err := db.Table(table).Where(fmt.Sprintf("%s = ?", column), value).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether table has at least one row where column = value.
func (g RowGuard) Exists(dbc dbctx.Context, table, column string, value any) (bool, error) {
	n, err := g.Count(dbc, table, column, value)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RequireRowCount converts a row count mismatch into an invariant violation.
func RequireRowCount(got, want int64, what string) error {
	if got == want {
		return nil
	}
	return InvariantError(fmt.Sprintf("%s: want %d rows, got %d", strings.TrimSpace(what), want, got))
}

// RequireAffected converts a write that touched no rows into a conflict.
func RequireAffected(n int64, message string) error {
	if n > 0 {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
