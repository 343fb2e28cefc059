package validation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Violation codes. They double as i18n keys.
const (
	CodeRequired         = "required"
	CodeNonNegative      = "must_be_non_negative"
	CodeInvalidNumber    = "invalid_number"
	CodeInvalidDate      = "invalid_date"
	CodeUnknownReference = "unknown_reference"
)

// Violations maps a field name to the code of its first violation.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Fields returns the violated field names in sorted order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Merge copies violations from o that v does not have yet.
func (v Violations) Merge(o Violations) {
	for f, code := range o {
		v.Add(f, code)
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired)
	}
}

// Present flags field as required when ok is false.
func Present(field string, ok bool, v Violations) {
	if !ok {
		v.Add(field, CodeRequired)
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, CodeNonNegative)
	}
}
