package reader

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/table"
)

// gzipMagic is the two-byte gzip header
var gzipMagic = []byte{0x1f, 0x8b}

func readDelimited(fs afero.Fs, path string, opts Options) (*records, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = f.Close() }()

	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
		base := strings.TrimSuffix(strings.ToLower(path), ".gz")
		if filepath.Ext(base) == ".tsv" {
			delim = '\t'
		}
	}

	return decodeDelimited(f, delim)
}

// decompress returns a reader over r, transparently gunzipping when r starts
// with the gzip magic bytes
func decompress(r io.Reader) (*bufio.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != gzipMagic[0] || magic[1] != gzipMagic[1] {
		return br, func() {}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open gzip stream")
	}
	return bufio.NewReader(zr), func() { _ = zr.Close() }, nil
}

// decodeDelimited reads a header row followed by data rows.
//
// Blank lines are skipped and a UTF-8 byte order mark before the header is
// dropped.
func decodeDelimited(r io.Reader, delim rune) (*records, error) {
	br, closeFn, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rec := &records{header: header}
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}
		if len(row) > len(header) {
			return nil, &table.RecordError{Row: line, Fields: len(row), Expected: len(header)}
		}
		rec.rows = append(rec.rows, row)
	}

	return rec, nil
}
