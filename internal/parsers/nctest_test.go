package parsers

import (
	"sort"
	"testing"

	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/stretchr/testify/require"

	"github.com/ncar-xdev/ecgtools/api"
)

type ncVar struct {
	name string
	v    ncapi.Variable
}

func attrMap(t *testing.T, kv map[string]any) ncapi.AttributeMap {
	t.Helper()
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	om, err := util.NewOrderedMap(keys, kv)
	require.NoError(t, err)
	return om
}

// writeNC synthesizes a classic-format netCDF file for parser tests.
func writeNC(t *testing.T, path string, globals map[string]any, vars ...ncVar) {
	t.Helper()
	cw, err := cdf.OpenWriter(path)
	require.NoError(t, err)
	for _, vr := range vars {
		require.NoError(t, cw.AddVar(vr.name, vr.v))
	}
	if len(globals) > 0 {
		require.NoError(t, cw.AddAttributes(attrMap(t, globals)))
	}
	require.NoError(t, cw.Close())
}

func field(t *testing.T, e *api.Entry, key string) any {
	t.Helper()
	v, ok := e.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}
