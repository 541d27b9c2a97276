package api

import "context"

// Parser extracts catalog metadata from a single asset path. It is the
// only contract project-specific extraction logic has to satisfy;
// the pipeline treats implementations as opaque.
//
// A Parser must be safe for concurrent use: the dispatcher may invoke
// Parse from multiple workers at once, each call owning its own file
// handle for the duration of the call.
type Parser interface {
	Parse(ctx context.Context, path string) (*Entry, error)
}

// ParserFunc adapts an ordinary function to the Parser interface.
type ParserFunc func(ctx context.Context, path string) (*Entry, error)

func (f ParserFunc) Parse(ctx context.Context, path string) (*Entry, error) {
	return f(ctx, path)
}

// Entry is the metadata harvested from one asset: an ordered mapping of
// field name to value. Field order is preserved so that catalog column
// order is reproducible across runs.
type Entry struct {
	keys   []string
	fields map[string]any
}

func NewEntry() *Entry {
	return &Entry{fields: make(map[string]any)}
}

// Set adds or replaces a field. First insertion fixes the field's
// position in Keys.
func (e *Entry) Set(key string, value any) {
	if _, ok := e.fields[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.fields[key] = value
}

func (e *Entry) Get(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (e *Entry) Keys() []string {
	return e.keys
}

func (e *Entry) Len() int {
	return len(e.keys)
}
