package reader

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/csvreport/table"
)

func TestLoad_JSONLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/sales.jsonl", []byte(`{"region":"east","amount":10}

{"region":"west","amount":20,"note":"late"}
{"amount":2.5,"region":null,"tags":["a","b"],"ok":true}
`))

	tbl, err := Load(fs, "/sales.jsonl", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "amount", "note", "tags", "ok"}, tbl.Names())
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"east", "10.0", "", "", ""}, tbl.Row(0))
	assert.Equal(t, []string{"", "2.5", "", `["a","b"]`, "true"}, tbl.Row(2))

	amount, _ := tbl.Column("amount")
	assert.Equal(t, table.Float, amount.Kind)
}

func TestLoad_JSONLinesGzip(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/sales.jsonl.gz", gzipBytes(t, []byte(`{"region":"east","amount":10}`+"\n")))

	tbl, err := Load(fs, "/sales.jsonl.gz", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "10"}, tbl.Row(0))
}

func TestLoad_JSONLinesErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.jsonl", []byte("{\"a\":1}\n{not json}\n"))
	writeFile(t, fs, "/array.jsonl", []byte("[1,2]\n"))
	writeFile(t, fs, "/empty.jsonl", []byte("\n\n"))

	_, err := Load(fs, "/bad.jsonl", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Load(fs, "/array.jsonl", Options{})
	assert.Error(t, err)

	_, err = Load(fs, "/empty.jsonl", Options{})
	assert.True(t, errors.Is(err, ErrEmptyInput))
}
