package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ncar-xdev/ecgtools/api"
)

func entryOf(pairs ...any) *api.Entry {
	e := api.NewEntry()
	for i := 0; i < len(pairs); i += 2 {
		e.Set(pairs[i].(string), pairs[i+1])
	}
	return e
}

func TestTableColumnUnion(t *testing.T) {
	tb := NewTable()
	tb.Append(entryOf("path", "/a.nc", "variable", "tas"))
	tb.Append(entryOf("path", "/b.nc", "units", "K"))

	assert.Equal(t, []string{"path", "variable", "units"}, tb.Columns())
	assert.Equal(t, 2, tb.Len())
}

func TestTableRectangular(t *testing.T) {
	tb := NewTable()
	tb.Append(entryOf("path", "/a.nc", "variable", "tas"))
	tb.Append(entryOf("path", "/b.nc", "units", "K"))

	// Every row renders a value for every column, absent cells empty.
	assert.Equal(t, []string{"/a.nc", "tas", ""}, tb.Record(0))
	assert.Equal(t, []string{"/b.nc", "", "K"}, tb.Record(1))
	assert.Equal(t, Absent, tb.Cell(0, "units"))
}

func TestTableEmpty(t *testing.T) {
	tb := NewTable()
	assert.Zero(t, tb.Len())
	assert.Empty(t, tb.Columns())
}

func TestRenderCell(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"tas", "tas"},
		{Absent, ""},
		{nil, ""},
		{42, "42"},
		{int64(7), "7"},
		{int32(3), "3"},
		{1.5, "1.5"},
		{float32(2.5), "2.5"},
		{true, "true"},
		{[]string{"TS", "PRECT"}, `["TS","PRECT"]`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, renderCell(tc.in))
	}
}

func TestTableDuplicateRowsKept(t *testing.T) {
	tb := NewTable()
	tb.Append(entryOf("path", "/a.nc", "variable", "tas"))
	tb.Append(entryOf("path", "/a.nc", "variable", "tas"))
	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, tb.Record(0), tb.Record(1))
}
