package query

import (
	"strings"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/vegasq/csvreport/table"
)

// CountColumn is the name of the row-count column produced by count:*
const CountColumn = "count"

// AggSpec is a parsed "function:column" aggregation
type AggSpec struct {
	Function string
	Column   string
}

// String renders the spec back to function:column form
func (s AggSpec) String() string {
	return s.Function + ":" + s.Column
}

// CountsRows reports whether the spec is count:*, which counts rows per group
func (s AggSpec) CountsRows() bool {
	return s.Column == "*" && strings.EqualFold(s.Function, "count")
}

// ParseAggSpec parses "function:column". Without a colon the column is "*".
func ParseAggSpec(raw string) AggSpec {
	fn, col, found := strings.Cut(raw, ":")
	if !found {
		col = "*"
	}
	return AggSpec{Function: fn, Column: col}
}

// ParseAggSpecs parses every raw spec
func ParseAggSpecs(raws []string) []AggSpec {
	specs := make([]AggSpec, len(raws))
	for i, raw := range raws {
		specs[i] = ParseAggSpec(raw)
	}
	return specs
}

// HasCountRows reports whether any spec is count:*
func HasCountRows(specs []AggSpec) bool {
	for _, spec := range specs {
		if spec.CountsRows() {
			return true
		}
	}
	return false
}

// group holds the source row indices sharing one group key
type group struct {
	keys []*table.Column
	row  int // first row of the group, used to compare keys
	rows []int
}

// Less orders groups by their key tuple. Numeric key columns compare by
// value, string key columns compare bytewise.
func (g *group) Less(than btree.Item) bool {
	other := than.(*group)
	for _, col := range g.keys {
		if c := compareCells(col, g.row, other.row); c != 0 {
			return c < 0
		}
	}
	return false
}

func compareCells(col *table.Column, a, b int) int {
	switch col.Kind {
	case table.Int:
		x, y := col.Int(a), col.Int(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case table.Float:
		x, y := col.Float(a), col.Float(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	default:
		return strings.Compare(col.Str(a), col.Str(b))
	}
}

// groupRows partitions the rows of t by the groupBy columns.
//
// Groups come back sorted by key. Rows with a null in any key column are
// left out.
func groupRows(t *table.Table, groupBy []string) ([]*group, []*table.Column, error) {
	keys := make([]*table.Column, len(groupBy))
	for i, name := range groupBy {
		col, err := requireColumn(t, name)
		if err != nil {
			return nil, nil, err
		}
		keys[i] = col
	}

	tree := btree.New(32)
rows:
	for i := 0; i < t.Len(); i++ {
		for _, col := range keys {
			if col.IsNull(i) {
				continue rows
			}
		}

		probe := &group{keys: keys, row: i}
		if existing := tree.Get(probe); existing != nil {
			g := existing.(*group)
			g.rows = append(g.rows, i)
			continue
		}
		probe.rows = []int{i}
		tree.ReplaceOrInsert(probe)
	}

	groups := make([]*group, 0, tree.Len())
	tree.Ascend(func(item btree.Item) bool {
		groups = append(groups, item.(*group))
		return true
	})

	return groups, keys, nil
}

// keyColumns builds the output group-key columns, one row per group
func keyColumns(groups []*group, keys []*table.Column) []*table.Column {
	first := make([]int, len(groups))
	for i, g := range groups {
		first[i] = g.row
	}

	cols := make([]*table.Column, len(keys))
	for i, key := range keys {
		cols[i] = key.Take(first)
	}
	return cols
}

// CountRows groups t and counts the source rows in each group.
//
// The result has the group-key columns followed by an Int "count" column.
func CountRows(t *table.Table, groupBy []string) (*table.Table, error) {
	groups, keys, err := groupRows(t, groupBy)
	if err != nil {
		return nil, err
	}

	counts := make([]int64, len(groups))
	for i, g := range groups {
		counts[i] = int64(len(g.rows))
	}

	cols := append(keyColumns(groups, keys), table.NewIntColumn(CountColumn, counts))
	return table.New(cols...)
}

// metric is one output column: a source column and the reducer applied to it
type metric struct {
	column   string
	function string
}

// metricPlan maps each target column to its function, keeping the position
// of the first spec that named the column. A later spec for the same column
// replaces the function.
func metricPlan(specs []AggSpec) []metric {
	plan := make([]metric, 0, len(specs))
	position := make(map[string]int, len(specs))

	for _, spec := range specs {
		if i, exists := position[spec.Column]; exists {
			plan[i].function = spec.Function
			continue
		}
		position[spec.Column] = len(plan)
		plan = append(plan, metric{column: spec.Column, function: spec.Function})
	}

	return plan
}

// Aggregate groups t by groupBy and reduces each aggregated column.
//
// When any spec is count:* the other specs are ignored and the result is
// the same as CountRows. Otherwise each metric column keeps its source name
// and follows the group-key columns.
func Aggregate(t *table.Table, groupBy []string, specs []AggSpec) (*table.Table, error) {
	if HasCountRows(specs) {
		return CountRows(t, groupBy)
	}

	plan := metricPlan(specs)

	// columns and reducers resolve before any grouping
	sources := make([]*table.Column, len(plan))
	fns := make([]Reducer, len(plan))
	for i, m := range plan {
		col, err := requireColumn(t, m.column)
		if err != nil {
			return nil, err
		}
		r, err := LookupReducer(m.function)
		if err != nil {
			return nil, err
		}
		sources[i] = col
		fns[i] = r
	}

	groups, keys, err := groupRows(t, groupBy)
	if err != nil {
		return nil, err
	}

	cols := keyColumns(groups, keys)
	for i, m := range plan {
		kind, err := fns[i].Result(sources[i].Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%s", m.function, m.column)
		}

		out := table.NewColumn(m.column, kind)
		for _, g := range groups {
			if err := fns[i].Reduce(sources[i], g.rows, out); err != nil {
				return nil, errors.Wrapf(err, "%s:%s", m.function, m.column)
			}
		}
		cols = append(cols, out)
	}

	return table.New(cols...)
}
