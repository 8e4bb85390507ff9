package table

import (
	"math"
	"strconv"
	"strings"
)

// FromRecords builds a table from a header and text rows.
//
// Rows shorter than the header are padded with empty cells; longer rows are
// an error. Duplicate header names get a ".N" suffix. Each column's kind is
// inferred with Infer.
func FromRecords(header []string, records [][]string) (*Table, error) {
	names := DedupeNames(header)

	cells := make([][]string, len(names))
	for j := range cells {
		cells[j] = make([]string, len(records))
	}

	for i, record := range records {
		if len(record) > len(names) {
			return nil, &RecordError{Row: i + 1, Fields: len(record), Expected: len(names)}
		}
		for j, cell := range record {
			cells[j][i] = cell
		}
	}

	cols := make([]*Column, len(names))
	for j, name := range names {
		cols[j] = Infer(name, cells[j])
	}

	return New(cols...)
}

// Infer builds a column from raw text, choosing the narrowest kind that
// holds every cell.
//
// A column is Int when every cell parses as a base-10 int64 and none is
// empty, Float when every non-empty cell parses as a float (empty cells
// become NaN), and String otherwise. A column of only empty cells is Float;
// a column with no rows at all is String.
func Infer(name string, cells []string) *Column {
	isInt := true
	isFloat := true

	for _, cell := range cells {
		s := strings.TrimSpace(cell)
		if s == "" {
			isInt = false
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
				break
			}
		}
	}

	switch {
	case len(cells) == 0:
		return NewStringColumn(name, []string{})
	case isInt:
		values := make([]int64, len(cells))
		for i, cell := range cells {
			values[i], _ = strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		}
		return NewIntColumn(name, values)
	case isFloat:
		values := make([]float64, len(cells))
		for i, cell := range cells {
			s := strings.TrimSpace(cell)
			if s == "" {
				values[i] = math.NaN()
				continue
			}
			values[i], _ = strconv.ParseFloat(s, 64)
		}
		return NewFloatColumn(name, values)
	default:
		return NewStringColumn(name, append([]string(nil), cells...))
	}
}

// DedupeNames renames repeated header names to name.1, name.2, ...
func DedupeNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			names[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		names[i] = name
	}

	return names
}

// RecordError reports a data row with more fields than the header
type RecordError struct {
	Row      int
	Fields   int
	Expected int
}

func (e *RecordError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": expected " + strconv.Itoa(e.Expected) +
		" fields, saw " + strconv.Itoa(e.Fields)
}
