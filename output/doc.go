// Package output writes a table.Table to files and streams.
//
// # Supported Formats
//
//   - CSV: header row followed by one record per row, no index column
//   - JSON Lines: one JSON object per row (suitable for streaming)
//   - Parquet: a single file, columns ordered by name
//   - Table: an aligned text grid for terminal previews
//
// # Basic Usage
//
// WriteFile picks the format from the file extension and replaces the
// destination atomically:
//
//	if err := output.WriteFile(afero.NewOsFs(), "out/report.csv", t); err != nil {
//	    log.Fatal(err)
//	}
//
// A formatter can also be used directly:
//
//	formatter := output.NewTableFormatter(os.Stdout)
//	formatter.MaxRows = 20
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
//
// # Type Handling
//
// Numbers are written the way table.Column.Format renders them, so an
// integral float keeps its ".0" suffix and re-reads as a float column.
// Missing values are empty CSV fields, JSON null, or Parquet null.
package output
