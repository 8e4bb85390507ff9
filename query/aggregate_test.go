package query

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/csvreport/table"
)

func rows(t *testing.T, tbl *table.Table) [][]string {
	t.Helper()
	out := make([][]string, tbl.Len())
	for i := range out {
		out[i] = tbl.Row(i)
	}
	return out
}

func TestParseAggSpec(t *testing.T) {
	tests := []struct {
		raw  string
		want AggSpec
	}{
		{"sum:amount", AggSpec{"sum", "amount"}},
		{"avg:price", AggSpec{"avg", "price"}},
		{"count:*", AggSpec{"count", "*"}},
		{"count", AggSpec{"count", "*"}},
		{"first:a:b", AggSpec{"first", "a:b"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAggSpec(tt.raw))
		})
	}
}

func TestAggSpec_CountsRows(t *testing.T) {
	assert.True(t, AggSpec{"count", "*"}.CountsRows())
	assert.True(t, AggSpec{"COUNT", "*"}.CountsRows())
	assert.False(t, AggSpec{"count", "amount"}.CountsRows())
	assert.False(t, AggSpec{"sum", "*"}.CountsRows())
}

func TestAggregate_SumByRegion(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount"},
		[]string{"east", "10"},
		[]string{"east", "30"},
		[]string{"west", "5"},
	)

	got, err := Aggregate(tbl, []string{"region"}, ParseAggSpecs([]string{"sum:amount"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "amount"}, got.Names())
	assert.Equal(t, [][]string{{"east", "40"}, {"west", "5"}}, rows(t, got))
}

func TestAggregate_CountRowsOverridesOtherSpecs(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount"},
		[]string{"west", "5"},
		[]string{"east", "10"},
		[]string{"east", "30"},
	)

	for _, specs := range [][]string{
		{"count:*"},
		{"sum:amount", "count:*"},
		{"count:*", "avg:amount"},
		{"sum:nonexistent", "count:*"},
	} {
		got, err := Aggregate(tbl, []string{"region"}, ParseAggSpecs(specs))
		require.NoError(t, err, "%v", specs)
		assert.Equal(t, []string{"region", CountColumn}, got.Names(), "%v", specs)
		assert.Equal(t, [][]string{{"east", "2"}, {"west", "1"}}, rows(t, got), "%v", specs)
	}
}

func TestAggregate_LastSpecWins(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount", "price"},
		[]string{"east", "10", "1.0"},
		[]string{"east", "30", "3.0"},
	)

	got, err := Aggregate(tbl, []string{"region"}, ParseAggSpecs([]string{"sum:amount", "avg:price", "max:amount"}))
	require.NoError(t, err)

	// amount keeps its first position but uses max
	assert.Equal(t, []string{"region", "amount", "price"}, got.Names())
	assert.Equal(t, [][]string{{"east", "30", "2.0"}}, rows(t, got))
}

func TestAggregate_MultipleKeysSorted(t *testing.T) {
	tbl := salesTable(t, []string{"region", "year", "amount"},
		[]string{"west", "2024", "1"},
		[]string{"east", "2024", "2"},
		[]string{"east", "2023", "3"},
		[]string{"east", "2024", "4"},
		[]string{"west", "2023", "5"},
	)

	got, err := Aggregate(tbl, []string{"region", "year"}, ParseAggSpecs([]string{"sum:amount"}))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"east", "2023", "3"},
		{"east", "2024", "6"},
		{"west", "2023", "5"},
		{"west", "2024", "1"},
	}, rows(t, got))
}

func TestAggregate_NumericKeysSortByValue(t *testing.T) {
	tbl := salesTable(t, []string{"bucket", "n"},
		[]string{"10", "1"},
		[]string{"9", "1"},
		[]string{"100", "1"},
	)

	got, err := Aggregate(tbl, []string{"bucket"}, ParseAggSpecs([]string{"count:*"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, columnText(t, got, "bucket"))
}

func TestAggregate_NullKeysDropped(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount"},
		[]string{"east", "1"},
		[]string{"", "2"},
		[]string{"east", "3"},
	)

	got, err := Aggregate(tbl, []string{"region"}, ParseAggSpecs([]string{"sum:amount"}))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"east", "4"}}, rows(t, got))
}

func TestAggregate_Reducers(t *testing.T) {
	tbl := salesTable(t, []string{"g", "i", "f", "s"},
		[]string{"a", "1", "1.5", "x"},
		[]string{"a", "4", "", "z"},
		[]string{"a", "2", "2.5", "y"},
		[]string{"a", "2", "5.0", ""},
	)

	tests := []struct {
		spec string
		want string
	}{
		{"sum:i", "9"},
		{"sum:f", "9.0"},
		{"sum:s", "xzy"},
		{"avg:i", "2.25"},
		{"mean:f", "3.0"},
		{"count:i", "4"},
		{"count:f", "3"},
		{"count:s", "3"},
		{"size:f", "4"},
		{"min:i", "1"},
		{"max:f", "5.0"},
		{"min:s", "x"},
		{"max:s", "z"},
		{"median:i", "2.0"},
		{"median:f", "2.5"},
		{"var:f", "3.25"},
		{"std:i", "1.2583057392117916"},
		{"prod:i", "16"},
		{"first:f", "1.5"},
		{"last:s", "y"},
		{"nunique:i", "3"},
		{"SUM:i", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			spec := ParseAggSpec(tt.spec)
			got, err := Aggregate(tbl, []string{"g"}, []AggSpec{spec})
			require.NoError(t, err)
			assert.Equal(t, tt.want, columnText(t, got, spec.Column)[0])
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount"}, []string{"east", "10"})

	tests := []struct {
		name    string
		groupBy []string
		specs   []string
		target  error
	}{
		{"unknown group column", []string{"city"}, []string{"sum:amount"}, ErrUnknownColumn},
		{"unknown metric column", []string{"region"}, []string{"sum:price"}, ErrUnknownColumn},
		{"star without count", []string{"region"}, []string{"sum"}, ErrUnknownColumn},
		{"unknown function", []string{"region"}, []string{"mode:amount"}, ErrUnknownFunction},
		{"mean of text", []string{"amount"}, []string{"avg:region"}, ErrUnsupportedKind},
		{"unknown group column with count", []string{"city"}, []string{"count:*"}, ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tbl, tt.groupBy, ParseAggSpecs(tt.specs))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestAggregate_EmptyTable(t *testing.T) {
	tbl := salesTable(t, []string{"region", "amount"})

	got, err := Aggregate(tbl, []string{"region"}, ParseAggSpecs([]string{"count:amount"}))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"region", "amount"}, got.Names())
}

func TestReducerNames(t *testing.T) {
	names := ReducerNames()
	assert.Contains(t, names, "sum")
	assert.Contains(t, names, "avg")
	assert.Contains(t, names, "mean")
	assert.Contains(t, names, "count")
	assert.IsIncreasing(t, names)
}
