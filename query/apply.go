package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/vegasq/csvreport/table"
)

// CompareMode is how a bound predicate compares column values with its literal
type CompareMode int

const (
	// NumericCompare compares the column, coerced to float64, with the literal as a number
	NumericCompare CompareMode = iota
	// StringCompare compares raw column text with the literal text
	StringCompare
)

func (m CompareMode) String() string {
	if m == NumericCompare {
		return "numeric"
	}
	return "string"
}

// Predicate is a Condition bound to a table column.
//
// The comparison mode is resolved once in Bind, so Match does no type
// probing per row.
type Predicate struct {
	Condition Condition
	Mode      CompareMode

	column *table.Column
	number float64
	floats []float64
}

// Bind resolves a condition against t.
//
// Equality operators compare numerically only when the literal parses as a
// float and the column is numeric; otherwise they compare strings. Ordering
// operators always coerce both sides to float64 and fail with a
// *ConversionError when either side is not a number.
func Bind(t *table.Table, cond Condition) (*Predicate, error) {
	col, err := requireColumn(t, cond.Column)
	if err != nil {
		return nil, err
	}

	p := &Predicate{Condition: cond, column: col}
	literal, literalErr := parseNumber(cond.Value)

	if cond.Operator.Ordering() {
		if literalErr != nil {
			return nil, &ConversionError{Condition: cond, Err: literalErr}
		}
		floats, err := col.Floats()
		if err != nil {
			return nil, &ConversionError{Condition: cond, Err: err}
		}
		p.Mode = NumericCompare
		p.number = literal
		p.floats = floats
		return p, nil
	}

	if literalErr == nil && col.Kind.Numeric() {
		p.Mode = NumericCompare
		p.number = literal
		// numeric columns never fail to coerce
		p.floats, _ = col.Floats()
		return p, nil
	}

	p.Mode = StringCompare
	return p, nil
}

// Match reports whether row i satisfies the predicate
func (p *Predicate) Match(i int) bool {
	if p.Mode == NumericCompare {
		return compareNumbers(p.floats[i], p.Condition.Operator, p.number)
	}

	// A numeric column never holds a value equal to a non-numeric literal,
	// and null cells equal nothing.
	equal := !p.column.Kind.Numeric() && !p.column.IsNull(i) && p.column.Str(i) == p.Condition.Value
	if p.Condition.Operator == OpNotEqual {
		return !equal
	}
	return equal
}

// compareNumbers compares two numbers. NaN only satisfies !=.
func compareNumbers(left float64, operator Operator, right float64) bool {
	switch operator {
	case OpEqual:
		return left == right
	case OpNotEqual:
		return left != right
	case OpLess:
		return left < right
	case OpGreater:
		return left > right
	case OpLessEqual:
		return left <= right
	case OpGreaterEqual:
		return left >= right
	default:
		return false
	}
}

// ApplyFilter narrows t to the rows matching cond
func ApplyFilter(t *table.Table, cond Condition) (*table.Table, error) {
	p, err := Bind(t, cond)
	if err != nil {
		return nil, err
	}

	matched := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if p.Match(i) {
			matched = append(matched, i)
		}
	}

	return t.Take(matched), nil
}

// ApplyFilters applies conditions in order; a row survives only if it
// matches all of them
func ApplyFilters(t *table.Table, conds []Condition) (*table.Table, error) {
	var err error
	for _, cond := range conds {
		t, err = ApplyFilter(t, cond)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parseNumber parses a filter literal as a float
func parseNumber(s string) (float64, error) {
	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return math.NaN(), &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	return f, nil
}
