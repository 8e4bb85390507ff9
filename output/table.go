package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/csvreport/table"
)

// TableFormatter renders a table as an aligned text grid for terminals
type TableFormatter struct {
	writer io.Writer

	// MaxRows limits how many rows are shown. Zero shows every row.
	MaxRows int
}

// NewTableFormatter creates a new text grid formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the header and rows. When rows are cut off by MaxRows a
// footer reports the total count.
func (f *TableFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.Names())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)

	n := t.Len()
	if f.MaxRows > 0 && n > f.MaxRows {
		n = f.MaxRows
		footer := make([]string, t.Width())
		if len(footer) > 0 {
			footer[0] = "..."
			footer[len(footer)-1] = formatCount(t.Len())
		}
		tw.SetFooter(footer)
	}

	for i := 0; i < n; i++ {
		tw.Append(t.Row(i))
	}

	tw.Render()
	return nil
}

func formatCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}
