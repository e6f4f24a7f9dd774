// Package lines turns delimited order-line text into order lines.
//
// Shape problems (missing headers, ragged rows, empty cells, bad numbers) are
// reported as a Result value, never as a Go error, so callers can echo the
// message to the client verbatim.
package lines

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

// Required lists the header names every upload must carry. Data columns are
// read positionally in this order.
var Required = []string{
	"Note",
	"Quantity",
	"Total Tax Amount",
	"Price",
	"Base Quantity",
	"Unit Code",
	"Item ID",
	"Description",
	"Name",
	"Properties",
}

const (
	colNote = iota
	colQuantity
	colTotalTax
	colPrice
	colBaseQuantity
	colUnitCode
	colItemID
	colDescription
	colName
	colProperties
)

// Result is the outcome of validating or parsing an upload.
type Result struct {
	Valid   bool
	Missing []string
	Error   string
	// Row is the 1-based data row that failed, 0 when the failure is not row specific.
	Row int
}

func ok() Result { return Result{Valid: true} }

func rowFailure(row int, format string, args ...any) Result {
	return Result{Row: row, Error: fmt.Sprintf(format, args...)}
}

// LinePolicy decides how parsed lines combine with lines already on the aggregate.
type LinePolicy string

const (
	// LinePolicyReplace swaps the aggregate's line list for the parsed one.
	LinePolicyReplace LinePolicy = "replace"
)

// Validate checks headers and row shape without building any lines.
func Validate(text string) Result {
	_, res := readRows(text)
	return res
}

// Parse validates the upload and maps every data row onto an order line.
func Parse(text string) ([]order.Line, Result) {
	rows, res := readRows(text)
	if !res.Valid {
		return nil, res
	}
	out := make([]order.Line, 0, len(rows))
	for i, cols := range rows {
		line, res := toLine(i+1, cols)
		if !res.Valid {
			return nil, res
		}
		out = append(out, line)
	}
	return out, ok()
}

// ParseProperties reads "key:value" pairs separated by semicolons. Pairs with
// no colon or an empty side are skipped. The value ends at the next colon, so
// "a:b:c" yields a=b.
func ParseProperties(s string) order.Properties {
	var props order.Properties
	for _, pair := range strings.Split(s, ";") {
		parts := strings.Split(pair, ":")
		if len(parts) < 2 {
			continue
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		props.Set(key, value)
	}
	return props
}

// ApplyCSV merges parsed lines into agg according to policy.
func ApplyCSV(agg *order.Aggregate, parsed []order.Line, policy LinePolicy) error {
	if agg == nil {
		return fmt.Errorf("apply csv lines: nil aggregate")
	}
	switch policy {
	case LinePolicyReplace, "":
		agg.OrderLines = append([]order.Line(nil), parsed...)
		return nil
	default:
		return fmt.Errorf("apply csv lines: unsupported policy %q", policy)
	}
}

// readRows returns the trimmed data rows after the header.
func readRows(text string) ([][]string, Result) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var (
		header []string
		rows   [][]string
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Result{Error: fmt.Sprintf("Malformed CSV: %v", err)}
		}
		trimCells(rec)
		if isBlank(rec) {
			continue
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}

	if missing := missingHeaders(header); len(missing) > 0 {
		return nil, Result{
			Missing: missing,
			Error:   "Missing headers: " + strings.Join(missing, ", "),
		}
	}
	for i, cols := range rows {
		if len(cols) != len(header) {
			return nil, rowFailure(i+1, "Row %d has incorrect number of columns.", i+1)
		}
		for _, c := range cols {
			if c == "" {
				return nil, rowFailure(i+1, "Row %d has empty columns.", i+1)
			}
		}
	}
	return rows, ok()
}

func missingHeaders(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, name := range Required {
		if _, found := present[name]; !found {
			missing = append(missing, name)
		}
	}
	return missing
}

func toLine(row int, cols []string) (order.Line, Result) {
	var bad Result
	num := func(col int) decimal.Decimal {
		if bad.Error != "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(cols[col])
		if err != nil {
			bad = rowFailure(row, "Row %d has an invalid number in column %q.", row, Required[col])
			return decimal.Zero
		}
		return d
	}

	line := order.Line{
		Note: cols[colNote],
		LineItem: order.LineItem{
			Quantity:       num(colQuantity),
			TotalTaxAmount: num(colTotalTax),
			Price:          num(colPrice),
			BaseQuantity: order.BaseQuantity{
				Quantity: num(colBaseQuantity),
				UnitCode: cols[colUnitCode],
			},
			Item: order.Item{
				ItemID:      order.ItemID(cols[colItemID]),
				Description: cols[colDescription],
				Name:        cols[colName],
				Properties:  ParseProperties(cols[colProperties]),
			},
		},
	}
	if bad.Error != "" {
		return order.Line{}, bad
	}
	return line, ok()
}

func trimCells(rec []string) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
}

// isBlank reports a whitespace-only line. A row of empty cells is not blank.
func isBlank(rec []string) bool {
	return len(rec) == 1 && rec[0] == ""
}
