package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/table"
)

// WriteFile writes t to path in the format chosen by its extension.
//
// Missing parent directories are created. The table is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a partial file at path.
func WriteFile(fs afero.Fs, path string, t *table.Table) error {
	return writeAtomic(fs, path, func(w *bufio.Writer) error {
		f, err := ForPath(path, w)
		if err != nil {
			return err
		}
		return f.Format(t)
	})
}

// writeAtomic runs write against a temporary sibling of path and renames
// it into place once write and the flush succeed
func writeAtomic(fs afero.Fs, path string, write func(w *bufio.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New()))
	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = fs.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(f)
	if err = write(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush output")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "failed to close output")
	}
	if err = fs.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "failed to move output to %s", path)
	}
	return nil
}

// WriteStream writes t to w with the formatter named csv, jsonl or table
func WriteStream(w io.Writer, name string, t *table.Table) error {
	var f Formatter
	switch name {
	case "csv":
		f = NewCSVFormatter(w)
	case "jsonl", "json":
		f = NewJSONFormatter(w)
	case "table":
		f = NewTableFormatter(w)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
	return f.Format(t)
}
