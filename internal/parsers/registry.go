// Package parsers holds the built-in attribute parsers and the registry
// that resolves a collection name (e.g. from a CLI argument or a build
// spec) to a parser. Project-specific parsers register themselves here
// once; after resolution they are ordinary values threaded through the
// pipeline.
package parsers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ncar-xdev/ecgtools/api"
)

var ErrUnknownParser = errors.New("unknown parser")

var (
	mu       sync.RWMutex
	registry = make(map[string]api.Parser)
)

// Register adds a named parser. Registering the same name twice is a
// programming error.
func Register(name string, p api.Parser) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("parsers: duplicate registration for %q", name))
	}
	registry[name] = p
}

// Lookup resolves a registered parser by name.
func Lookup(name string) (api.Parser, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p, nil
}

// Names lists the registered parser names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("cmip6", api.ParserFunc(ParseCMIP6))
	Register("cmip6_drs", api.ParserFunc(ParseCMIP6DRS))
	Register("cmip5_drs", api.ParserFunc(ParseCMIP5DRS))
	Register("cesm_history", api.ParserFunc(ParseCESMHistory))
	Register("cesm_timeseries", api.ParserFunc(ParseCESMTimeseries))
	Register("cesm_smyle", api.ParserFunc(ParseSMYLE))
	Register("amwg_obs", api.ParserFunc(ParseAMWGObs))
	Register("zarr", api.ParserFunc(ParseZarr))
}
