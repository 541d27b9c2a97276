package emit

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/ncar-xdev/ecgtools/api"
	"github.com/ncar-xdev/ecgtools/internal/catalog"
)

// DefaultEsmcatVersion is the collection-spec version stamped on
// documents that do not ask for another one.
const DefaultEsmcatVersion = "0.0.1"

var ErrFormatConflict = errors.New("data format and format column are mutually exclusive")

// SpecOptions shapes the ESM collection document emitted next to the
// catalog.
type SpecOptions struct {
	ID          string
	Description string

	// PathColumn names the catalog column holding asset paths.
	PathColumn string
	// VariableColumn names the column downstream readers treat as the
	// variable name.
	VariableColumn string

	// Exactly one of DataFormat and FormatColumn must be set: either
	// every asset shares one format, or a column carries per-asset
	// formats.
	DataFormat   string
	FormatColumn string

	// GroupbyAttrs are the columns that identify one aggregatable
	// dataset. Defaults to the path column.
	GroupbyAttrs []string
	Aggregations []api.Aggregation

	EsmcatVersion string

	// LastUpdated overrides the document timestamp, for reproducible
	// output. Zero means now.
	LastUpdated time.Time
}

// BuildCollection assembles the ESM collection document for a catalog
// table. Column references in the options must exist in the table
// unless the table is empty.
func BuildCollection(table *catalog.Table, catalogFile string, opts SpecOptions) (*api.Collection, error) {
	if opts.PathColumn == "" {
		return nil, errors.New("path column is required")
	}
	if opts.DataFormat != "" && opts.FormatColumn != "" {
		return nil, ErrFormatConflict
	}
	if opts.DataFormat == "" && opts.FormatColumn == "" {
		return nil, errors.New("one of data format or format column is required")
	}

	groupby := opts.GroupbyAttrs
	if len(groupby) == 0 {
		groupby = []string{opts.PathColumn}
	}

	if table.Len() > 0 {
		required := append([]string{opts.PathColumn}, groupby...)
		for _, col := range []string{opts.VariableColumn, opts.FormatColumn} {
			if col != "" {
				required = append(required, col)
			}
		}
		have := make(map[string]bool, len(table.Columns()))
		for _, col := range table.Columns() {
			have[col] = true
		}
		for _, col := range required {
			if !have[col] {
				return nil, fmt.Errorf("%q must be a catalog column", col)
			}
		}
	}

	version := opts.EsmcatVersion
	if version == "" {
		version = DefaultEsmcatVersion
	}
	updated := opts.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}

	attributes := make([]api.Attribute, 0, len(table.Columns()))
	for _, col := range table.Columns() {
		attributes = append(attributes, api.Attribute{ColumnName: col})
	}

	return &api.Collection{
		EsmcatVersion: version,
		ID:            opts.ID,
		Description:   opts.Description,
		CatalogFile:   catalogFile,
		LastUpdated:   updated.UTC().Format("2006-01-02T15:04:05Z"),
		Attributes:    attributes,
		Assets: api.Assets{
			ColumnName:       opts.PathColumn,
			Format:           opts.DataFormat,
			FormatColumnName: opts.FormatColumn,
		},
		AggregationControl: api.AggregationControl{
			VariableColumnName: opts.VariableColumn,
			GroupbyAttrs:       groupby,
			Aggregations:       opts.Aggregations,
		},
	}, nil
}

// WriteJSON renders the collection document with two-space indentation.
func WriteJSON(w io.Writer, coll *api.Collection) error {
	data, err := oj.Marshal(coll, 2)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
