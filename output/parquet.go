package output

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/segmentio/parquet-go"

	"github.com/vegasq/csvreport/table"
)

// rowBatch is how many rows are buffered before each WriteRows call
const rowBatch = 1024

// ParquetFormatter outputs a table as a single Parquet file.
//
// String and Int columns are required; Float columns are optional so that
// NaN is stored as null. Parquet groups order their fields by name, so the
// file lists columns alphabetically.
type ParquetFormatter struct {
	writer io.Writer
}

// NewParquetFormatter creates a new Parquet formatter
func NewParquetFormatter(w io.Writer) *ParquetFormatter {
	return &ParquetFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *ParquetFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes the table as one row group per rowBatch rows
func (p *ParquetFormatter) Format(t *table.Table) error {
	if t.Width() == 0 {
		return errors.New("cannot write a parquet file with no columns")
	}

	schema, cols := parquetSchema(t)
	pw := parquet.NewWriter(p.writer, schema)

	batch := make([]parquet.Row, 0, rowBatch)
	for i := 0; i < t.Len(); i++ {
		row := make(parquet.Row, len(cols))
		for j, col := range cols {
			row[j] = parquetValue(col, i, j)
		}
		batch = append(batch, row)

		if len(batch) == rowBatch {
			if _, err := pw.WriteRows(batch); err != nil {
				return errors.Wrap(err, "failed to write rows")
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := pw.WriteRows(batch); err != nil {
			return errors.Wrap(err, "failed to write rows")
		}
	}

	return errors.Wrap(pw.Close(), "failed to close parquet writer")
}

// parquetSchema builds the schema for t and returns its columns in leaf order
func parquetSchema(t *table.Table) (*parquet.Schema, []*table.Column) {
	group := make(parquet.Group, t.Width())
	for _, col := range t.Columns() {
		switch col.Kind {
		case table.Int:
			group[col.Name] = parquet.Int(64)
		case table.Float:
			group[col.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		default:
			group[col.Name] = parquet.String()
		}
	}

	cols := append([]*table.Column(nil), t.Columns()...)
	sort.Slice(cols, func(a, b int) bool { return cols[a].Name < cols[b].Name })

	return parquet.NewSchema("report", group), cols
}

func parquetValue(col *table.Column, i, columnIndex int) parquet.Value {
	switch col.Kind {
	case table.Int:
		return parquet.ValueOf(col.Int(i)).Level(0, 0, columnIndex)
	case table.Float:
		if col.IsNull(i) {
			return parquet.Value{}.Level(0, 0, columnIndex)
		}
		return parquet.ValueOf(col.Float(i)).Level(0, 1, columnIndex)
	default:
		return parquet.ValueOf(col.Str(i)).Level(0, 0, columnIndex)
	}
}
