package reader

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSchemaInfo(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/s.csv", []byte("region,amount,score\n,10,\neast,20,1.5\nwest,30,\n"))

	infos, err := ExtractSchemaInfo(fs, "/s.csv", Options{})
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, SchemaInfo{Name: "region", Type: "string", NonNull: 2, Nulls: 1, Example: "east"}, infos[0])
	assert.Equal(t, SchemaInfo{Name: "amount", Type: "int", NonNull: 3, Nulls: 0, Example: "10"}, infos[1])
	assert.Equal(t, SchemaInfo{Name: "score", Type: "float", NonNull: 1, Nulls: 2, Example: "1.5"}, infos[2])
}

func TestExtractSchemaInfo_MissingFile(t *testing.T) {
	_, err := ExtractSchemaInfo(afero.NewMemMapFs(), "/missing.csv", Options{})
	assert.Error(t, err)
}

func TestSchemaTable(t *testing.T) {
	tbl, err := SchemaTable([]SchemaInfo{
		{Name: "region", Type: "string", NonNull: 2, Nulls: 1, Example: "east"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "type", "non_null", "nulls", "example"}, tbl.Names())
	assert.Equal(t, []string{"region", "string", "2", "1", "east"}, tbl.Row(0))
}
