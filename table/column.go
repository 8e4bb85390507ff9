package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Kind is the inferred type of every value in a column
type Kind int

const (
	String Kind = iota
	Int
	Float
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of this kind can be compared as numbers
func (k Kind) Numeric() bool {
	return k == Int || k == Float
}

// Column holds the values of one named column.
//
// Only the slice matching Kind is populated. Nulls are empty strings in a
// String column and NaN in a Float column; Int columns cannot hold nulls.
type Column struct {
	Name string
	Kind Kind

	strs   []string
	ints   []int64
	floats []float64
}

// NewColumn creates an empty column of the given kind
func NewColumn(name string, kind Kind) *Column {
	return &Column{Name: name, Kind: kind}
}

// NewStringColumn creates a String column backed by values
func NewStringColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: String, strs: values}
}

// NewIntColumn creates an Int column backed by values
func NewIntColumn(name string, values []int64) *Column {
	return &Column{Name: name, Kind: Int, ints: values}
}

// NewFloatColumn creates a Float column backed by values
func NewFloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Float, floats: values}
}

// Len returns the number of values in the column
func (c *Column) Len() int {
	switch c.Kind {
	case Int:
		return len(c.ints)
	case Float:
		return len(c.floats)
	default:
		return len(c.strs)
	}
}

// IsNull reports whether the value at row i is missing
func (c *Column) IsNull(i int) bool {
	switch c.Kind {
	case String:
		return c.strs[i] == ""
	case Float:
		return math.IsNaN(c.floats[i])
	default:
		return false
	}
}

// Str returns the raw string at row i. Numeric columns return the formatted value.
func (c *Column) Str(i int) string {
	if c.Kind == String {
		return c.strs[i]
	}
	return c.Format(i)
}

// Int returns the integer at row i of an Int column
func (c *Column) Int(i int) int64 {
	return c.ints[i]
}

// Float returns the value at row i of a numeric column as float64
func (c *Column) Float(i int) float64 {
	if c.Kind == Int {
		return float64(c.ints[i])
	}
	return c.floats[i]
}

// Floats converts every value to float64.
//
// String columns are coerced cell by cell; null cells become NaN and any other
// cell that is not a number fails the whole conversion.
func (c *Column) Floats() ([]float64, error) {
	out := make([]float64, c.Len())
	for i := range out {
		if c.Kind.Numeric() {
			out[i] = c.Float(i)
			continue
		}
		if c.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(c.strs[i]))
		if err != nil {
			return nil, &CellError{Column: c.Name, Row: i, Value: c.strs[i], Err: err}
		}
		out[i] = f
	}
	return out, nil
}

// Value returns the value at row i as a Go value: string, int64, float64 or nil
func (c *Column) Value(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	switch c.Kind {
	case Int:
		return c.ints[i]
	case Float:
		return c.floats[i]
	default:
		return c.strs[i]
	}
}

// Format renders the value at row i the way it is written to delimited text
func (c *Column) Format(i int) string {
	switch c.Kind {
	case Int:
		return strconv.FormatInt(c.ints[i], 10)
	case Float:
		return FormatFloat(c.floats[i])
	default:
		return c.strs[i]
	}
}

// AppendString appends to a String column
func (c *Column) AppendString(v string) {
	c.strs = append(c.strs, v)
}

// AppendInt appends to an Int column
func (c *Column) AppendInt(v int64) {
	c.ints = append(c.ints, v)
}

// AppendFloat appends to a Float column
func (c *Column) AppendFloat(v float64) {
	c.floats = append(c.floats, v)
}

// AppendNull appends a missing value. Int columns have no null representation.
func (c *Column) AppendNull() error {
	switch c.Kind {
	case String:
		c.strs = append(c.strs, "")
	case Float:
		c.floats = append(c.floats, math.NaN())
	default:
		return errors.Errorf("column %q of kind %s cannot hold null", c.Name, c.Kind)
	}
	return nil
}

// Take returns a new column holding the rows at the given indices, in order
func (c *Column) Take(indices []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case Int:
		out.ints = make([]int64, len(indices))
		for j, i := range indices {
			out.ints[j] = c.ints[i]
		}
	case Float:
		out.floats = make([]float64, len(indices))
		for j, i := range indices {
			out.floats[j] = c.floats[i]
		}
	default:
		out.strs = make([]string, len(indices))
		for j, i := range indices {
			out.strs[j] = c.strs[i]
		}
	}
	return out
}

// Rename returns a shallow copy of the column under a new name
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.Name = name
	return &cp
}

// FormatFloat renders a float in shortest round-trip form.
//
// Integral values keep a trailing ".0" so that re-reading the text infers a
// float column again. NaN renders as an empty cell.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// CellError reports a value that could not be converted to a number
type CellError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return "could not convert string to float: " + strconv.Quote(e.Value) +
		" (column " + strconv.Quote(e.Column) + ", row " + strconv.Itoa(e.Row) + ")"
}

func (e *CellError) Unwrap() error {
	return e.Err
}
