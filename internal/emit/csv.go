// Package emit persists a finished build: the catalog table as CSV or
// SQLite, the ESM collection document describing it, and the invalid
// assets report. Writers take the whole result; nothing here streams,
// emission only starts once the build pass is complete.
package emit

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ncar-xdev/ecgtools/internal/catalog"
)

// WriteCSV renders the catalog table with a header row. Absent cells
// come out empty.
func WriteCSV(w io.Writer, table *catalog.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < table.Len(); i++ {
		if err := cw.Write(table.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFailuresCSV renders the failure log as a two-column report.
func WriteFailuresCSV(w io.Writer, failures []catalog.Failure) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "error"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, f := range failures {
		if err := cw.Write([]string{f.Path, f.Error}); err != nil {
			return fmt.Errorf("write failure for %s: %w", f.Path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
