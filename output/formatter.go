package output

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vegasq/csvreport/table"
)

// ErrUnsupportedFormat is returned for an output path with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// ForPath picks a formatter from the extension of path.
//
// .csv (and a missing extension) writes delimited text, .jsonl and .ndjson
// write JSON Lines and .parquet writes a Parquet file.
func ForPath(path string, w io.Writer) (Formatter, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", "":
		return NewCSVFormatter(w), nil
	case ".tsv":
		f := NewCSVFormatter(w)
		f.Comma = '\t'
		return f, nil
	case ".jsonl", ".ndjson":
		return NewJSONFormatter(w), nil
	case ".parquet":
		return NewParquetFormatter(w), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
}
