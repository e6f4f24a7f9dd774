package order

import (
	"encoding/json"
	"testing"
)

func TestPropertiesKeepJSONOrder(t *testing.T) {
	var p Properties
	if err := json.Unmarshal([]byte(`{"Size":"L","Colour":"Red","Weight":2,"Material":"Cotton"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Property{{"Size", "L"}, {"Colour", "Red"}, {"Weight", "2"}, {"Material", "Cotton"}}
	got := p.Entries()
	if len(got) != len(want) {
		t.Fatalf("len: want=%d got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: want=%v got=%v", i, want[i], got[i])
		}
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"Size":"L","Colour":"Red","Weight":"2","Material":"Cotton"}` {
		t.Fatalf("marshal: got %s", out)
	}
}

func TestPropertiesSetKeepsPosition(t *testing.T) {
	p := NewProperties(Property{"a", "1"}, Property{"b", "2"})
	p.Set("a", "3")
	got := p.Entries()
	if len(got) != 2 || got[0] != (Property{"a", "3"}) || got[1] != (Property{"b", "2"}) {
		t.Fatalf("entries: got %v", got)
	}
}

func TestPropertiesNull(t *testing.T) {
	var p Properties
	if err := json.Unmarshal([]byte(`null`), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("len: want=0 got=%d", p.Len())
	}
	if err := json.Unmarshal([]byte(`[1]`), &p); err == nil {
		t.Fatalf("expected error for array")
	}
}
