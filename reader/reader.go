package reader

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/table"
)

// maxFiles bounds how many files a glob pattern may expand to
const maxFiles = 1000

var (
	// ErrEmptyInput is returned when an input has no header row
	ErrEmptyInput = errors.New("no columns to parse from file")

	// ErrNoMatches is returned when a glob pattern matches no files
	ErrNoMatches = errors.New("no files match pattern")
)

// Format identifies how an input file is decoded
type Format int

const (
	FormatDelimited Format = iota
	FormatJSONLines
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatJSONLines:
		return "jsonl"
	case FormatParquet:
		return "parquet"
	default:
		return "delimited"
	}
}

// Options controls decoding of delimited text
type Options struct {
	// Delimiter separates fields. Zero means a comma, or a tab for .tsv files.
	Delimiter rune
}

// records is a decoded file before type inference
type records struct {
	header []string
	rows   [][]string
}

// DetectFormat picks a decoder from the file extension. A trailing .gz is
// ignored when choosing the format.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), ".gz")))
	switch ext {
	case ".jsonl", ".ndjson":
		return FormatJSONLines
	case ".parquet":
		return FormatParquet
	default:
		return FormatDelimited
	}
}

// Load reads the table at path.
//
// The path may be a glob pattern; every match is read and the rows are
// concatenated, with columns in first-seen order and missing cells left
// empty. Column kinds are inferred after concatenation.
func Load(fs afero.Fs, path string, opts Options) (*table.Table, error) {
	paths := []string{path}
	if strings.ContainsAny(path, "*?[") {
		matches, err := afero.Glob(fs, path)
		if err != nil {
			return nil, errors.Wrap(err, "invalid glob pattern")
		}
		if len(matches) == 0 {
			return nil, errors.Wrapf(ErrNoMatches, "%s", path)
		}
		if len(matches) > maxFiles {
			return nil, errors.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
		}
		paths = matches
	}

	decoded := make([]*records, 0, len(paths))
	for _, p := range paths {
		rec, err := readFile(fs, p, opts)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, rec)
	}

	merged := concat(decoded)
	return table.FromRecords(merged.header, merged.rows)
}

func readFile(fs afero.Fs, path string, opts Options) (*records, error) {
	var (
		rec *records
		err error
	)

	switch DetectFormat(path) {
	case FormatParquet:
		rec, err = readParquet(fs, path)
	case FormatJSONLines:
		rec, err = readJSONLines(fs, path)
	default:
		rec, err = readDelimited(fs, path, opts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return rec, nil
}

// concat merges decoded files into one set of records
func concat(parts []*records) *records {
	if len(parts) == 1 {
		return parts[0]
	}

	out := &records{}
	position := make(map[string]int)
	headers := make([][]string, len(parts))
	for k, part := range parts {
		headers[k] = table.DedupeNames(part.header)
		for _, name := range headers[k] {
			if _, ok := position[name]; !ok {
				position[name] = len(out.header)
				out.header = append(out.header, name)
			}
		}
	}

	for k, part := range parts {
		for _, row := range part.rows {
			merged := make([]string, len(out.header))
			for j, cell := range row {
				merged[position[headers[k][j]]] = cell
			}
			out.rows = append(out.rows, merged)
		}
	}

	return out
}
