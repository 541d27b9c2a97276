package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ncar-xdev/ecgtools/api"
)

// Table is the rectangular catalog assembled from successful parse
// results. Rows keep discovery order; the column set is the union of
// all entry fields in first-appearance order. Cells for fields an
// entry never produced hold an explicit absent marker, never a missing
// key, so every row is the same width.
type Table struct {
	columns []string
	colIdx  map[string]int
	rows    []map[string]any
}

// Absent marks a cell whose row never produced the column's field.
// It renders as an empty CSV cell and a SQL NULL.
type absentCell struct{}

var Absent any = absentCell{}

func NewTable() *Table {
	return &Table{colIdx: make(map[string]int)}
}

// Append adds one entry as a row, extending the column set with any
// fields not seen before.
func (t *Table) Append(entry *api.Entry) {
	row := make(map[string]any, entry.Len())
	for _, key := range entry.Keys() {
		if _, ok := t.colIdx[key]; !ok {
			t.colIdx[key] = len(t.columns)
			t.columns = append(t.columns, key)
		}
		v, _ := entry.Get(key)
		row[key] = v
	}
	t.rows = append(t.rows, row)
}

// Columns returns the column names in first-appearance order.
func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Cell returns the value at (row, column), or Absent if the row never
// produced that field.
func (t *Table) Cell(row int, column string) any {
	v, ok := t.rows[row][column]
	if !ok {
		return Absent
	}
	return v
}

// Record renders row i as strings in column order, with absent cells
// rendered empty. Non-scalar values (such as a history file's variable
// list) are rendered as JSON.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.columns))
	for c, col := range t.columns {
		rec[c] = renderCell(t.Cell(i, col))
	}
	return rec
}

func renderCell(v any) string {
	switch x := v.(type) {
	case absentCell, nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
