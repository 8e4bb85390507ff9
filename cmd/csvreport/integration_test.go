package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/segmentio/parquet-go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saleRow is the parquet fixture layout
type saleRow struct {
	Region string  `parquet:"region"`
	Amount float64 `parquet:"amount"`
	Status string  `parquet:"status"`
}

const salesCSV = `region,amount,status
east,10,completed
east,30,completed
west,5,completed
west,99,open
`

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/sales.csv", []byte(salesCSV), 0o644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), fs, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestMain_GroupAndSum(t *testing.T) {
	fs := testFs(t)

	code, stdout, stderr := execute(t, fs,
		"--input", "/data/sales.csv",
		"--filter", "status = completed",
		"--group-by", "region",
		"--agg", "sum:amount",
		"--out", "/out/report.csv",
	)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Saved table to /out/report.csv\n", stdout)

	data, err := afero.ReadFile(fs, "/out/report.csv")
	require.NoError(t, err)
	assert.Equal(t, "region,amount\neast,40\nwest,5\n", string(data))
}

func TestMain_ShortFlagsAndChart(t *testing.T) {
	fs := testFs(t)

	code, stdout, stderr := execute(t, fs,
		"-i", "/data/sales.csv",
		"-g", "region",
		"-a", "count:*",
		"-o", "/counts.csv",
		"-p", "/counts.png",
	)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Saved table to /counts.csv and chart to /counts.png\n", stdout)

	data, err := afero.ReadFile(fs, "/counts.csv")
	require.NoError(t, err)
	assert.Equal(t, "region,count\neast,2\nwest,2\n", string(data))
}

func TestMain_UnknownColumn(t *testing.T) {
	fs := testFs(t)

	code, stdout, stderr := execute(t, fs, "-i", "/data/sales.csv", "-f", "country=US", "-o", "/r.csv")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: Column 'country' not in data")
	assert.Contains(t, stderr, "Available columns: region, amount, status")

	exists, err := afero.Exists(fs, "/r.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMain_UnknownFunction(t *testing.T) {
	code, _, stderr := execute(t, testFs(t), "-i", "/data/sales.csv", "-g", "region", "-a", "total:amount", "-o", "/r.csv")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Supported functions:")
}

func TestMain_MissingInput(t *testing.T) {
	code, _, stderr := execute(t, testFs(t), "-o", "/r.csv")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "input")
}

func TestMain_ParquetInAndOut(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := fs.Create("/sales.parquet")
	require.NoError(t, err)
	w := parquet.NewGenericWriter[saleRow](f)
	_, err = w.Write([]saleRow{
		{Region: "east", Amount: 10, Status: "completed"},
		{Region: "west", Amount: 20, Status: "completed"},
		{Region: "east", Amount: 5, Status: "open"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	code, _, stderr := execute(t, fs, "-i", "/sales.parquet", "-g", "region", "-a", "max:amount", "-o", "/out.jsonl")
	require.Equal(t, 0, code, stderr)

	data, err := afero.ReadFile(fs, "/out.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "{\"region\":\"east\",\"amount\":10.0}\n{\"region\":\"west\",\"amount\":20.0}\n", string(data))
}

func TestMain_Schema(t *testing.T) {
	fs := testFs(t)

	code, stdout, stderr := execute(t, fs, "-i", "/data/sales.csv", "--schema")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "amount")
	assert.Contains(t, stdout, "non_null")

	exists, err := afero.Exists(fs, "report.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMain_Verbose(t *testing.T) {
	code, _, stderr := execute(t, testFs(t), "-i", "/data/sales.csv", "-o", "/r.csv", "-v")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "loaded input")
}

func TestMain_SpaceSeparatedAggs(t *testing.T) {
	fs := testFs(t)

	code, _, stderr := execute(t, fs, "-i", "/data/sales.csv", "-g", "region", "-a", "sum:amount", "max:amount", "-o", "/r.csv")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unexpected argument "max:amount"`)
	assert.Contains(t, stderr, "-a sum:amount -a mean:price")

	code, _, stderr = execute(t, fs, "-i", "/data/sales.csv", "-g", "region", "-a", "sum:amount,count:*", "-o", "/r.csv")
	require.Equal(t, 0, code, stderr)

	data, err := afero.ReadFile(fs, "/r.csv")
	require.NoError(t, err)
	assert.Equal(t, "region,count\neast,2\nwest,2\n", string(data))
}
