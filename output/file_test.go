package output

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/csvreport/reader"
	"github.com/vegasq/csvreport/table"
)

func TestWriteFile_CreatesDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fs, "/out/nested/report.csv", reportTable(t)))

	data, err := afero.ReadFile(fs, "/out/nested/report.csv")
	require.NoError(t, err)
	assert.Equal(t, "region,count,amount\neast,3,10.0\n\"west, north\",1,\n", string(data))

	entries, err := afero.ReadDir(fs, "/out/nested")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestWriteFile_Overwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/report.csv", []byte("old contents that are longer\n"), 0o644))

	require.NoError(t, WriteFile(fs, "/report.csv", reportTable(t)))

	data, err := afero.ReadFile(fs, "/report.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "region,count,amount")
	assert.NotContains(t, string(data), "old contents")
}

func TestWriteFile_UnsupportedLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := WriteFile(fs, "/out/report.xlsx", reportTable(t))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	cities, err := table.New(table.NewStringColumn("city", []string{"a", "", "b"}))
	require.NoError(t, err)

	tests := []struct {
		name string
		tbl  *table.Table
	}{
		{"report", reportTable(t)},
		{"single column with nulls", cities},
	}

	for _, tt := range tests {
		for _, path := range []string{"/r.csv", "/r.jsonl"} {
			t.Run(tt.name+path, func(t *testing.T) {
				fs := afero.NewMemMapFs()
				require.NoError(t, WriteFile(fs, path, tt.tbl))

				got, err := reader.Load(fs, path, reader.Options{})
				require.NoError(t, err)

				assert.Equal(t, tt.tbl.Names(), got.Names())
				require.Equal(t, tt.tbl.Len(), got.Len())
				for i := 0; i < tt.tbl.Len(); i++ {
					assert.Equal(t, tt.tbl.Row(i), got.Row(i))
				}
			})
		}
	}
}
