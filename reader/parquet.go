package reader

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/parquet-go"
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/table"
)

// ParquetReader reads parquet files into rows of column values.
//
// It keeps both the file handle and the parquet file handle so that Close
// releases the underlying file.
type ParquetReader struct {
	file   afero.File
	pqFile *parquet.File
}

// NewParquetReader opens path on fs and validates it as a parquet file.
//
// Example:
//
//	r, err := reader.NewParquetReader(afero.NewOsFs(), "data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewParquetReader(fs afero.Fs, path string) (*ParquetReader, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}

	pqFile, err := parquet.OpenFile(file, stat.Size(), &parquet.FileConfig{
		SkipPageIndex:    true,
		SkipBloomFilters: true,
	})
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to open parquet file")
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// Columns returns the top-level column names in schema order
func (r *ParquetReader) Columns() []string {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}
	return names
}

// NumRows returns the row count recorded in the file metadata
func (r *ParquetReader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadAll reads every row into memory, one map per row keyed by column name
func (r *ParquetReader) ReadAll() ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, r.NumRows())

	pr := parquet.NewReader(r.pqFile)
	defer func() { _ = pr.Close() }()

	for {
		row := make(map[string]interface{})
		err := pr.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, "failed to read row")
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Close releases the underlying file. It is safe to call more than once.
func (r *ParquetReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func readParquet(fs afero.Fs, path string) (*records, error) {
	r, err := NewParquetReader(fs, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	header := r.Columns()
	if len(header) == 0 {
		return nil, ErrEmptyInput
	}

	values, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rec := &records{header: header, rows: make([][]string, len(values))}
	for i, value := range values {
		row := make([]string, len(header))
		for j, name := range header {
			row[j] = formatParquetValue(value[name])
		}
		rec.rows[i] = row
	}

	return rec, nil
}

// formatParquetValue renders a decoded parquet value as a text cell
func formatParquetValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return table.FormatFloat(float64(val))
	case float64:
		return table.FormatFloat(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}
