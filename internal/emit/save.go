package emit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncar-xdev/ecgtools/internal/catalog"
)

// Options configures Save.
type Options struct {
	SpecOptions

	Logger *slog.Logger
}

// Save persists a completed build next to catalogPath: the catalog
// table (SQLite when the path ends in .db, CSV otherwise), the ESM
// collection document as <stem>.json, and, when the failure log is
// non-empty, invalid_assets_<stem>.csv. Each file is written to a
// temp file in the destination directory and renamed into place, so a
// failed run never clobbers a previous catalog.
func Save(catalogPath string, result *catalog.Result, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	coll, err := BuildCollection(result.Table, catalogPath, opts.SpecOptions)
	if err != nil {
		return err
	}

	dir := filepath.Dir(catalogPath)
	base := filepath.Base(catalogPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if ext == ".db" {
		err = replaceFile(catalogPath, func(tmp string) error {
			return WriteSQLite(tmp, result.Table, result.Failures)
		})
	} else {
		err = replaceFile(catalogPath, func(tmp string) error {
			return writeFileWith(tmp, func(f *os.File) error {
				return WriteCSV(f, result.Table)
			})
		})
	}
	if err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	jsonPath := filepath.Join(dir, stem+".json")
	err = replaceFile(jsonPath, func(tmp string) error {
		return writeFileWith(tmp, func(f *os.File) error {
			return WriteJSON(f, coll)
		})
	})
	if err != nil {
		return fmt.Errorf("write collection document: %w", err)
	}

	reportPath := filepath.Join(dir, "invalid_assets_"+stem+".csv")
	if len(result.Failures) > 0 {
		err = replaceFile(reportPath, func(tmp string) error {
			return writeFileWith(tmp, func(f *os.File) error {
				return WriteFailuresCSV(f, result.Failures)
			})
		})
		if err != nil {
			return fmt.Errorf("write invalid assets report: %w", err)
		}
	}

	log.Info("saved catalog",
		"catalog", catalogPath,
		"spec", jsonPath,
		"assets", result.Table.Len(),
		"invalid_assets", len(result.Failures),
	)
	return nil
}

// replaceFile writes through a temp name in the destination directory
// and renames into place.
func replaceFile(path string, fill func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := fill(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func writeFileWith(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
