// Package reader loads tabular files into a table.Table.
//
// Supported inputs, chosen by file extension:
//   - Delimited text (.csv, .tsv, anything else), optionally gzip-compressed
//   - JSON Lines (.jsonl, .ndjson), one object per line
//   - Apache Parquet (.parquet), read with segmentio/parquet-go
//
// Every format is decoded to text cells first; column kinds are then
// inferred the same way for all of them (see table.Infer).
//
// # Basic Usage
//
//	t, err := reader.Load(afero.NewOsFs(), "sales.csv", reader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.Names())
//
// # Multi-file Operations
//
// A glob pattern reads every match and concatenates the rows:
//
//	t, err := reader.Load(fs, "data/2024-*.csv", reader.Options{})
//
// Columns missing from some files are left empty in their rows.
//
// # Schema
//
// Describe and ExtractSchemaInfo report the inferred column kinds and null
// counts of a table.
package reader
