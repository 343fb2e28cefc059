package validation

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("status", "  ", v)
	Required("name", "ok", v)
	if v["status"] != CodeRequired {
		t.Fatalf("expected status required, got %v", v)
	}
	if v.Has("name") {
		t.Fatalf("name should be valid")
	}
}

func TestNonNegative(t *testing.T) {
	v := make(Violations)
	NonNegative("a", decimal.NewFromInt(-1), v)
	NonNegative("b", decimal.Zero, v)
	NonNegative("c", decimal.RequireFromString("0.01"), v)
	if !reflect.DeepEqual(v, Violations{"a": CodeNonNegative}) {
		t.Fatalf("got %v", v)
	}
}

func TestAddKeepsFirst(t *testing.T) {
	v := make(Violations)
	v.Add("montantHT", CodeInvalidNumber)
	Present("montantHT", false, v)
	if v["montantHT"] != CodeInvalidNumber {
		t.Fatalf("first violation overwritten: %v", v)
	}
}

func TestFieldsAndMerge(t *testing.T) {
	v := Violations{"status": CodeRequired}
	v.Merge(Violations{"client": CodeRequired, "status": CodeInvalidDate})
	if got := v.Fields(); !reflect.DeepEqual(got, []string{"client", "status"}) {
		t.Fatalf("Fields() = %v", got)
	}
	if v["status"] != CodeRequired {
		t.Fatalf("Merge overwrote status: %v", v)
	}
	if v.Empty() {
		t.Fatalf("Empty() = true")
	}
}
