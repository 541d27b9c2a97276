package emit

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncar-xdev/ecgtools/internal/catalog"
)

func TestBuildCollectionDefaults(t *testing.T) {
	table := sampleTable(t)

	coll, err := BuildCollection(table, "catalog.csv", SpecOptions{
		ID:             "test-catalog",
		PathColumn:     "path",
		VariableColumn: "variable",
		DataFormat:     "netcdf",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultEsmcatVersion, coll.EsmcatVersion)
	assert.Equal(t, "catalog.csv", coll.CatalogFile)
	assert.Equal(t, "path", coll.Assets.ColumnName)
	assert.Equal(t, "netcdf", coll.Assets.Format)
	// One attribute per catalog column.
	require.Len(t, coll.Attributes, 4)
	assert.Equal(t, "path", coll.Attributes[0].ColumnName)
	// Groupby defaults to the path column.
	assert.Equal(t, []string{"path"}, coll.AggregationControl.GroupbyAttrs)
	assert.Equal(t, "variable", coll.AggregationControl.VariableColumnName)
	assert.NotEmpty(t, coll.LastUpdated)
}

func TestBuildCollectionValidation(t *testing.T) {
	table := sampleTable(t)

	_, err := BuildCollection(table, "c.csv", SpecOptions{DataFormat: "netcdf"})
	assert.Error(t, err, "path column required")

	_, err = BuildCollection(table, "c.csv", SpecOptions{
		PathColumn: "path", DataFormat: "netcdf", FormatColumn: "format",
	})
	assert.ErrorIs(t, err, ErrFormatConflict)

	_, err = BuildCollection(table, "c.csv", SpecOptions{PathColumn: "path"})
	assert.Error(t, err, "a format is required")

	_, err = BuildCollection(table, "c.csv", SpecOptions{
		PathColumn: "path", DataFormat: "netcdf", GroupbyAttrs: []string{"nope"},
	})
	assert.Error(t, err, "groupby columns must exist")

	_, err = BuildCollection(table, "c.csv", SpecOptions{
		PathColumn: "missing", DataFormat: "netcdf",
	})
	assert.Error(t, err, "path column must exist")
}

func TestBuildCollectionEmptyTableSkipsColumnChecks(t *testing.T) {
	coll, err := BuildCollection(catalog.NewTable(), "c.csv", SpecOptions{
		PathColumn: "path", DataFormat: "netcdf",
	})
	require.NoError(t, err)
	assert.Empty(t, coll.Attributes)
}

func TestWriteJSON(t *testing.T) {
	table := sampleTable(t)
	coll, err := BuildCollection(table, "catalog.csv", SpecOptions{
		ID:             "test-catalog",
		Description:    "round-trip test",
		PathColumn:     "path",
		VariableColumn: "variable",
		DataFormat:     "netcdf",
		LastUpdated:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, coll))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "test-catalog", doc["id"])
	assert.Equal(t, "2024-06-01T12:00:00Z", doc["last_updated"])

	assets, ok := doc["assets"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "path", assets["column_name"])
	assert.Equal(t, "netcdf", assets["format"])

	control, ok := doc["aggregation_control"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "variable", control["variable_column_name"])
	assert.Equal(t, []any{"path"}, control["groupby_attrs"])
}
