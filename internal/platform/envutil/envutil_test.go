package envutil

import (
	"reflect"
	"testing"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "12x")
	if got := Int("ENVUTIL_INT", 4); got != 4 {
		t.Fatalf("Int: want=4 got=%d", got)
	}
	t.Setenv("ENVUTIL_INT", " 12 ")
	if got := Int("ENVUTIL_INT", 4); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"": true, "off": false, "YES": true, "maybe": true}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_BOOL", raw)
		if got := Bool("ENVUTIL_BOOL", true); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: want=0.25 got=%v", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("ENVUTIL_LIST", " a, ,b ,")
	if got := List("ENVUTIL_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("List: want=[a b] got=%v", got)
	}
	t.Setenv("ENVUTIL_LIST", " , ")
	if got := List("ENVUTIL_LIST", []string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("List blank: want=[x] got=%v", got)
	}
}
