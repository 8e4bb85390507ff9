package reader

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/valyala/fastjson"
)

// maxLineSize bounds a single JSON Lines record
const maxLineSize = 16 * 1024 * 1024

func readJSONLines(fs afero.Fs, path string) (*records, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = f.Close() }()

	return decodeJSONLines(f)
}

// decodeJSONLines reads one JSON object per line.
//
// Columns appear in the order keys are first seen. Strings keep their text,
// numbers keep their literal form, booleans become "true"/"false" and nulls
// become empty cells. Nested objects and arrays are kept as JSON text.
func decodeJSONLines(r io.Reader) (*records, error) {
	br, closeFn, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var p fastjson.Parser
	rec := &records{}
	position := make(map[string]int)

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		v, err := p.ParseBytes(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		obj, err := v.Object()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		row := make([]string, len(rec.header))
		obj.Visit(func(key []byte, value *fastjson.Value) {
			name := string(key)
			j, ok := position[name]
			if !ok {
				j = len(rec.header)
				position[name] = j
				rec.header = append(rec.header, name)
				row = append(row, "")
			}
			row[j] = cellText(value)
		})
		rec.rows = append(rec.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan input")
	}
	if len(rec.header) == 0 {
		return nil, ErrEmptyInput
	}

	// earlier rows are shorter when later rows introduced new keys
	for i, row := range rec.rows {
		if len(row) < len(rec.header) {
			rec.rows[i] = append(row, make([]string, len(rec.header)-len(row))...)
		}
	}

	return rec, nil
}

func cellText(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	default:
		return string(v.MarshalTo(nil))
	}
}
