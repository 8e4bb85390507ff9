package reader

import (
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/table"
)

// SchemaInfo describes one column of a loaded table
type SchemaInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"non_null"`
	Nulls   int    `json:"nulls"`
	Example string `json:"example"`
}

// ExtractSchemaInfo loads path and describes the inferred column types.
func ExtractSchemaInfo(fs afero.Fs, path string, opts Options) ([]SchemaInfo, error) {
	t, err := Load(fs, path, opts)
	if err != nil {
		return nil, err
	}
	return Describe(t), nil
}

// Describe reports each column's inferred kind, null count and first non-null value
func Describe(t *table.Table) []SchemaInfo {
	infos := make([]SchemaInfo, 0, t.Width())
	for _, col := range t.Columns() {
		info := SchemaInfo{Name: col.Name, Type: col.Kind.String()}
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) {
				info.Nulls++
				continue
			}
			if info.NonNull == 0 {
				info.Example = col.Format(i)
			}
			info.NonNull++
		}
		infos = append(infos, info)
	}
	return infos
}

// SchemaTable lays schema information out as a table for the output formatters
func SchemaTable(infos []SchemaInfo) (*table.Table, error) {
	var (
		names    = make([]string, len(infos))
		types    = make([]string, len(infos))
		nonNull  = make([]int64, len(infos))
		nulls    = make([]int64, len(infos))
		examples = make([]string, len(infos))
	)
	for i, info := range infos {
		names[i] = info.Name
		types[i] = info.Type
		nonNull[i] = int64(info.NonNull)
		nulls[i] = int64(info.Nulls)
		examples[i] = info.Example
	}

	return table.New(
		table.NewStringColumn("name", names),
		table.NewStringColumn("type", types),
		table.NewIntColumn("non_null", nonNull),
		table.NewIntColumn("nulls", nulls),
		table.NewStringColumn("example", examples),
	)
}
