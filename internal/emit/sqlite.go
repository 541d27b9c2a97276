package emit

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ncar-xdev/ecgtools/internal/catalog"
)

// WriteSQLite persists the catalog as a `catalog` table plus an
// `invalid_assets` table in a fresh database file. Every catalog
// column is TEXT; absent cells become NULL.
func WriteSQLite(path string, table *catalog.Table, failures []catalog.Failure) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	// Bulk-insert tuning: the file is written once and replaced whole,
	// so durability mid-write does not matter.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return err
	}

	columns := table.Columns()
	defs := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
		marks[i] = "?"
	}
	// An empty build has no column set to derive a catalog table from.
	schema := "CREATE TABLE invalid_assets (path TEXT NOT NULL, error TEXT);"
	if len(columns) > 0 {
		schema = fmt.Sprintf("CREATE TABLE catalog (%s);\n%s", strings.Join(defs, ", "), schema)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(columns) > 0 {
		stmt, err := tx.Prepare(fmt.Sprintf(
			"INSERT INTO catalog VALUES (%s)", strings.Join(marks, ", ")))
		if err != nil {
			return err
		}
		for i := 0; i < table.Len(); i++ {
			if _, err := stmt.Exec(rowArgs(table, i)...); err != nil {
				_ = stmt.Close()
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare("INSERT INTO invalid_assets (path, error) VALUES (?, ?)")
	if err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := stmt.Exec(f.Path, f.Error); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("insert failure for %s: %w", f.Path, err)
		}
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// rowArgs renders one table row as insert arguments, mapping absent
// cells to NULL instead of the empty string CSV uses.
func rowArgs(table *catalog.Table, row int) []any {
	columns := table.Columns()
	args := make([]any, len(columns))
	rec := table.Record(row)
	for c, col := range columns {
		v := table.Cell(row, col)
		if v == catalog.Absent || v == nil {
			args[c] = nil
			continue
		}
		args[c] = rec[c]
	}
	return args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
