package output

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/vegasq/csvreport/table"
)

// JSONFormatter outputs a table as JSON Lines, one object per row
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row with keys in column order.
// Empty strings and NaN become null.
func (j *JSONFormatter) Format(t *table.Table) error {
	bw := bufio.NewWriter(j.writer)

	var (
		arena fastjson.Arena
		buf   []byte
	)
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		arena.Reset()
		obj := arena.NewObject()
		for _, col := range cols {
			obj.Set(col.Name, jsonValue(&arena, col, i))
		}

		buf = obj.MarshalTo(buf[:0])
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i)
		}
	}

	return errors.Wrap(bw.Flush(), "failed to flush JSON writer")
}

func jsonValue(a *fastjson.Arena, col *table.Column, i int) *fastjson.Value {
	if col.IsNull(i) {
		return a.NewNull()
	}

	switch col.Kind {
	case table.Int:
		return a.NewNumberString(strconv.FormatInt(col.Int(i), 10))
	case table.Float:
		f := col.Float(i)
		if math.IsInf(f, 0) {
			return a.NewNull()
		}
		return a.NewNumberString(table.FormatFloat(f))
	default:
		return a.NewString(col.Str(i))
	}
}
