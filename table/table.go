// Package table provides the in-memory columnar dataset the report pipeline
// works on.
//
// A Table is an ordered list of named columns of equal length. Each column
// holds values of one inferred Kind (String, Int or Float). Tables are
// built by the reader package, narrowed by filters and reshaped by
// aggregation.
//
// Example usage:
//
//	t, err := table.FromRecords([]string{"region", "amount"}, [][]string{
//	    {"east", "10"},
//	    {"west", "20"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	amount, _ := t.Column("amount") // Kind == table.Int
package table

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRaggedColumns is returned when columns of a table differ in length
	ErrRaggedColumns = errors.New("columns have different lengths")

	// ErrDuplicateColumn is returned when two columns share a name
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Table is an ordered set of named columns with aligned rows
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates a table from columns. All columns must have the same length
// and distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", col.Name)
		}
		t.index[col.Name] = i

		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, errors.Wrapf(ErrRaggedColumns, "column %q has %d rows, expected %d", col.Name, col.Len(), t.rows)
		}
	}

	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Columns returns the columns in order
func (t *Table) Columns() []*Column {
	return t.columns
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Take returns a new table with only the rows at the given indices
func (t *Table) Take(indices []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		cols[i] = col.Take(indices)
	}

	return &Table{
		columns: cols,
		index:   t.index,
		rows:    len(indices),
	}
}

// Row returns row i rendered as delimited-text cells
func (t *Table) Row(i int) []string {
	record := make([]string, len(t.columns))
	for j, col := range t.columns {
		record[j] = col.Format(i)
	}
	return record
}

// String summarizes the table shape for logs
func (t *Table) String() string {
	return fmt.Sprintf("table[%d rows x %d columns]", t.rows, len(t.columns))
}
