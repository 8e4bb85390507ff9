package query

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/vegasq/csvreport/table"
)

// Reducer folds the rows of one group into a single output value
type Reducer struct {
	// Result returns the output kind for an input column kind, or an error
	// when the reducer does not apply to that kind
	Result func(in table.Kind) (table.Kind, error)

	// Reduce appends the group's value to out
	Reduce func(col *table.Column, rows []int, out *table.Column) error
}

var reducers = map[string]Reducer{
	"sum":     {Result: sameKind, Reduce: reduceSum},
	"mean":    {Result: numericTo(table.Float), Reduce: reduceMean},
	"avg":     {Result: numericTo(table.Float), Reduce: reduceMean},
	"count":   {Result: always(table.Int), Reduce: reduceCount},
	"size":    {Result: always(table.Int), Reduce: reduceSize},
	"min":     {Result: sameKind, Reduce: reduceExtreme(-1)},
	"max":     {Result: sameKind, Reduce: reduceExtreme(1)},
	"median":  {Result: numericTo(table.Float), Reduce: reduceMedian},
	"std":     {Result: numericTo(table.Float), Reduce: reduceSpread(true)},
	"var":     {Result: numericTo(table.Float), Reduce: reduceSpread(false)},
	"prod":    {Result: numericSame, Reduce: reduceProd},
	"first":   {Result: sameKind, Reduce: reducePick(false)},
	"last":    {Result: sameKind, Reduce: reducePick(true)},
	"nunique": {Result: always(table.Int), Reduce: reduceUnique},
}

// LookupReducer finds the reducer for a function name, ignoring case
func LookupReducer(name string) (Reducer, error) {
	r, ok := reducers[strings.ToLower(name)]
	if !ok {
		return Reducer{}, errors.Wrapf(ErrUnknownFunction, "%q", name)
	}
	return r, nil
}

// ReducerNames lists the supported function names in sorted order
func ReducerNames() []string {
	names := make([]string, 0, len(reducers))
	for name := range reducers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sameKind(in table.Kind) (table.Kind, error) {
	return in, nil
}

func always(kind table.Kind) func(table.Kind) (table.Kind, error) {
	return func(table.Kind) (table.Kind, error) {
		return kind, nil
	}
}

func numericTo(kind table.Kind) func(table.Kind) (table.Kind, error) {
	return func(in table.Kind) (table.Kind, error) {
		if !in.Numeric() {
			return 0, errors.Wrapf(ErrUnsupportedKind, "%s", in)
		}
		return kind, nil
	}
}

func numericSame(in table.Kind) (table.Kind, error) {
	if !in.Numeric() {
		return 0, errors.Wrapf(ErrUnsupportedKind, "%s", in)
	}
	return in, nil
}

// nonNullFloats collects the numeric values of rows, skipping nulls
func nonNullFloats(col *table.Column, rows []int) []float64 {
	values := make([]float64, 0, len(rows))
	for _, i := range rows {
		if !col.IsNull(i) {
			values = append(values, col.Float(i))
		}
	}
	return values
}

func reduceSum(col *table.Column, rows []int, out *table.Column) error {
	switch col.Kind {
	case table.Int:
		var sum int64
		for _, i := range rows {
			sum += col.Int(i)
		}
		out.AppendInt(sum)
	case table.Float:
		sum := 0.0
		for _, v := range nonNullFloats(col, rows) {
			sum += v
		}
		out.AppendFloat(sum)
	default:
		var b strings.Builder
		for _, i := range rows {
			b.WriteString(col.Str(i))
		}
		out.AppendString(b.String())
	}
	return nil
}

func reduceMean(col *table.Column, rows []int, out *table.Column) error {
	values := nonNullFloats(col, rows)
	if len(values) == 0 {
		return out.AppendNull()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	out.AppendFloat(sum / float64(len(values)))
	return nil
}

func reduceCount(col *table.Column, rows []int, out *table.Column) error {
	var n int64
	for _, i := range rows {
		if !col.IsNull(i) {
			n++
		}
	}
	out.AppendInt(n)
	return nil
}

func reduceSize(_ *table.Column, rows []int, out *table.Column) error {
	out.AppendInt(int64(len(rows)))
	return nil
}

// reduceExtreme returns min (sign -1) or max (sign 1) of the non-null values
func reduceExtreme(sign int) func(*table.Column, []int, *table.Column) error {
	return func(col *table.Column, rows []int, out *table.Column) error {
		best := -1
		for _, i := range rows {
			if col.IsNull(i) {
				continue
			}
			if best < 0 || compareCells(col, i, best)*sign > 0 {
				best = i
			}
		}
		return appendCell(col, best, out)
	}
}

func reduceMedian(col *table.Column, rows []int, out *table.Column) error {
	values := nonNullFloats(col, rows)
	if len(values) == 0 {
		return out.AppendNull()
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		out.AppendFloat(values[mid])
	} else {
		out.AppendFloat((values[mid-1] + values[mid]) / 2)
	}
	return nil
}

// reduceSpread computes the sample variance, or its square root when std is set
func reduceSpread(std bool) func(*table.Column, []int, *table.Column) error {
	return func(col *table.Column, rows []int, out *table.Column) error {
		values := nonNullFloats(col, rows)
		if len(values) < 2 {
			return out.AppendNull()
		}

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))

		ss := 0.0
		for _, v := range values {
			ss += (v - mean) * (v - mean)
		}
		variance := ss / float64(len(values)-1)

		if std {
			out.AppendFloat(math.Sqrt(variance))
		} else {
			out.AppendFloat(variance)
		}
		return nil
	}
}

func reduceProd(col *table.Column, rows []int, out *table.Column) error {
	if col.Kind == table.Int {
		prod := int64(1)
		for _, i := range rows {
			prod *= col.Int(i)
		}
		out.AppendInt(prod)
		return nil
	}

	prod := 1.0
	for _, v := range nonNullFloats(col, rows) {
		prod *= v
	}
	out.AppendFloat(prod)
	return nil
}

// reducePick returns the first (or last) non-null value
func reducePick(last bool) func(*table.Column, []int, *table.Column) error {
	return func(col *table.Column, rows []int, out *table.Column) error {
		picked := -1
		for _, i := range rows {
			if col.IsNull(i) {
				continue
			}
			picked = i
			if !last {
				break
			}
		}
		return appendCell(col, picked, out)
	}
}

func reduceUnique(col *table.Column, rows []int, out *table.Column) error {
	seen := make(map[string]struct{}, len(rows))
	for _, i := range rows {
		if !col.IsNull(i) {
			seen[col.Str(i)] = struct{}{}
		}
	}
	out.AppendInt(int64(len(seen)))
	return nil
}

// appendCell copies row i of col into out, or a null when i is negative
func appendCell(col *table.Column, i int, out *table.Column) error {
	if i < 0 {
		return out.AppendNull()
	}
	switch col.Kind {
	case table.Int:
		out.AppendInt(col.Int(i))
	case table.Float:
		out.AppendFloat(col.Float(i))
	default:
		out.AppendString(col.Str(i))
	}
	return nil
}
