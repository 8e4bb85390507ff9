package output

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/vegasq/csvreport/table"
)

// CSVFormatter outputs a table as delimited text with a header row
type CSVFormatter struct {
	writer io.Writer

	// Comma is the field delimiter, ',' by default
	Comma rune
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, Comma: ','}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the header and every row in table column order.
// Values are rendered with Column.Format, so nulls become empty fields.
func (c *CSVFormatter) Format(t *table.Table) error {
	csvWriter := csv.NewWriter(c.writer)
	if c.Comma != 0 {
		csvWriter.Comma = c.Comma
	}

	if err := c.write(csvWriter, t.Names()); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	for i := 0; i < t.Len(); i++ {
		if err := c.write(csvWriter, t.Row(i)); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV writer")
	}

	return nil
}

// write emits one record. A record holding a single empty field is written
// as "" so that readers do not skip it as a blank line.
func (c *CSVFormatter) write(w *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return w.Write(record)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(c.writer, "\"\"\n")
	return err
}
