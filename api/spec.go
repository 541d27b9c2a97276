// Package api holds the public types shared between the catalog pipeline
// and its callers: the parser capability contract and the ESM collection
// document emitted next to every catalog.
package api

// Collection is the ESM collection document written alongside the
// catalog table. Downstream catalog readers use it to interpret the
// table's columns and to group rows into aggregatable datasets.
//
// See https://github.com/NCAR/esm-collection-spec for the field
// definitions.
type Collection struct {
	EsmcatVersion      string             `json:"esmcat_version"`
	ID                 string             `json:"id"`
	Description        string             `json:"description"`
	CatalogFile        string             `json:"catalog_file"`
	LastUpdated        string             `json:"last_updated"`
	Attributes         []Attribute        `json:"attributes"`
	Assets             Assets             `json:"assets"`
	AggregationControl AggregationControl `json:"aggregation_control"`
}

// Attribute describes one column of the catalog table.
type Attribute struct {
	ColumnName string `json:"column_name"`
	Vocabulary string `json:"vocabulary"`
}

// Assets names the column holding asset paths and the data format of
// the assets. Format and FormatColumnName are mutually exclusive: a
// fixed format applies to every asset, a format column allows mixed
// formats in one catalog.
type Assets struct {
	ColumnName       string `json:"column_name"`
	Format           string `json:"format,omitempty"`
	FormatColumnName string `json:"format_column_name,omitempty"`
}

// Aggregation describes one merge rule applied when a downstream
// reader combines catalog rows into a dataset.
type Aggregation struct {
	Type          string         `json:"type"`
	AttributeName string         `json:"attribute_name"`
	Options       map[string]any `json:"options,omitempty"`
}

// AggregationControl defines which columns identify aggregatable
// groups of assets.
type AggregationControl struct {
	VariableColumnName string        `json:"variable_column_name"`
	GroupbyAttrs       []string      `json:"groupby_attrs"`
	Aggregations       []Aggregation `json:"aggregations"`
}

// Data formats recognized in Assets.Format.
const (
	FormatNetCDF = "netcdf"
	FormatZarr   = "zarr"
)
