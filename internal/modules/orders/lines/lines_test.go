package lines

import (
	"strings"
	"testing"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

const header = "Note,Quantity,Total Tax Amount,Price,Base Quantity,Unit Code,Item ID,Description,Name,Properties"

func csvOf(rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n")
}

func TestValidateMissingHeaders(t *testing.T) {
	text := "Note,Quantity,Total Tax Amount,Price,Base Quantity,Unit Code,Item ID,Name\nx,1,0,1,1,EA,1,n"
	res := Validate(text)
	if res.Valid {
		t.Fatalf("Valid: want=false")
	}
	if len(res.Missing) != 2 || res.Missing[0] != "Description" || res.Missing[1] != "Properties" {
		t.Fatalf("Missing: got %v", res.Missing)
	}
	if res.Error != "Missing headers: Description, Properties" {
		t.Fatalf("Error: got %q", res.Error)
	}
}

func TestValidateEmptyInputMissesEveryHeader(t *testing.T) {
	res := Validate("  \n\n")
	if res.Valid || len(res.Missing) != len(Required) {
		t.Fatalf("empty input: got %+v", res)
	}
}

func TestValidateEmptyCellNamesRow(t *testing.T) {
	text := csvOf(
		"a,1,0,10,1,EA,100,desc,name,Colour:Red",
		"b,2,0,10,1,EA,101,desc,name,Colour:Red",
		"c,3,0,10,1,EA,102,,name,Colour:Red",
	)
	res := Validate(text)
	if res.Valid {
		t.Fatalf("Valid: want=false")
	}
	if res.Row != 3 || res.Error != "Row 3 has empty columns." {
		t.Fatalf("got row=%d error=%q", res.Row, res.Error)
	}
}

func TestValidateColumnCount(t *testing.T) {
	text := csvOf(
		"a,1,0,10,1,EA,100,desc,name,Colour:Red",
		"b,2,0,10,1,EA,101,desc,name",
	)
	res := Validate(text)
	if res.Valid || res.Row != 2 || res.Error != "Row 2 has incorrect number of columns." {
		t.Fatalf("got %+v", res)
	}
}

func TestValidateIgnoresBlankLines(t *testing.T) {
	text := "\n" + header + "\n\n   \na,1,0,10,1,EA,100,desc,name,Colour:Red\n\n"
	lines, res := Parse(text)
	if !res.Valid {
		t.Fatalf("Parse: %+v", res)
	}
	if len(lines) != 1 {
		t.Fatalf("lines: want=1 got=%d", len(lines))
	}
}

func TestParseProducesOneLinePerRow(t *testing.T) {
	text := csvOf(
		"first, 50 ,0,120,1,EA,100,Widget,W,Colour:Red;Size:L",
		"second,15,0,15,1,EA,101,Gadget,G,Material:Steel",
		"third,1,0.5,2.25,1,KG,102,Bolt,B,Finish:Matte",
	)
	lines, res := Parse(text)
	if !res.Valid {
		t.Fatalf("Parse: %+v", res)
	}
	if len(lines) != 3 {
		t.Fatalf("lines: want=3 got=%d", len(lines))
	}
	first := lines[0]
	if first.Note != "first" || first.LineItem.Quantity.String() != "50" || first.LineItem.Price.String() != "120" {
		t.Fatalf("first line: got %+v", first)
	}
	if first.LineItem.Item.ItemID != "100" || first.LineItem.BaseQuantity.UnitCode != "EA" {
		t.Fatalf("first line item: got %+v", first.LineItem)
	}
	props := first.LineItem.Item.Properties.Entries()
	if len(props) != 2 || props[0] != (order.Property{Name: "Colour", Value: "Red"}) || props[1] != (order.Property{Name: "Size", Value: "L"}) {
		t.Fatalf("properties: got %v", props)
	}
	if got := lines[2].LineItem.TotalTaxAmount.String(); got != "0.5" {
		t.Fatalf("third totalTaxAmount: want=0.5 got=%s", got)
	}
}

func TestParseRejectsBadNumber(t *testing.T) {
	_, res := Parse(csvOf("a,lots,0,10,1,EA,100,desc,name,Colour:Red"))
	if res.Valid || res.Row != 1 {
		t.Fatalf("got %+v", res)
	}
	if res.Error != `Row 1 has an invalid number in column "Quantity".` {
		t.Fatalf("Error: got %q", res.Error)
	}
}

func TestParseProperties(t *testing.T) {
	props := ParseProperties(" Colour : Red ; broken ; :nokey; novalue: ; a:b:c ; URL:http://x ; Colour:Blue")
	got := props.Entries()
	want := []order.Property{{Name: "Colour", Value: "Blue"}, {Name: "a", Value: "b"}, {Name: "URL", Value: "http"}}
	if len(got) != len(want) {
		t.Fatalf("entries: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: want=%v got=%v", i, want[i], got[i])
		}
	}
}

func TestApplyCSVReplacesLines(t *testing.T) {
	agg := order.Aggregate{OrderLines: []order.Line{{Note: "json line"}}}
	parsed := []order.Line{{Note: "csv 1"}, {Note: "csv 2"}}
	if err := ApplyCSV(&agg, parsed, LinePolicyReplace); err != nil {
		t.Fatalf("ApplyCSV: %v", err)
	}
	if len(agg.OrderLines) != 2 || agg.OrderLines[0].Note != "csv 1" {
		t.Fatalf("OrderLines: got %+v", agg.OrderLines)
	}
	if err := ApplyCSV(&agg, parsed, LinePolicy("merge")); err == nil {
		t.Fatalf("expected unsupported policy error")
	}
}
