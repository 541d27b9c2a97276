package parsers

import (
	"context"
	"path/filepath"
	"testing"

	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amwgFixture(t *testing.T, name string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	writeNC(t, file, nil,
		ncVar{"time", ncapi.Variable{
			Values:     []float64{15.5},
			Dimensions: []string{"time"},
		}},
		ncVar{"lat", ncapi.Variable{
			Values:     []float64{-90, 0, 90},
			Dimensions: []string{"lat"},
		}},
		ncVar{"TS", ncapi.Variable{
			Values:     []float64{273.1},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{
				"long_name": "Surface temperature",
				"units":     "K",
			}),
		}},
	)
	return file
}

func TestParseAMWGObsMonthly(t *testing.T) {
	file := amwgFixture(t, "AIRS_01_climo.nc")

	entry, err := ParseAMWGObs(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "AIRS", field(t, entry, "source"))
	assert.Equal(t, "JAN", field(t, entry, "temporal"))
	assert.Equal(t, "monthly", field(t, entry, "time_period"))
	assert.Equal(t, []string{"TS"}, field(t, entry, "variables"))
	assert.Equal(t, file, field(t, entry, "path"))
}

func TestParseAMWGObsSeasonal(t *testing.T) {
	file := amwgFixture(t, "ERAI_DJF_climo.nc")

	entry, err := ParseAMWGObs(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "ERAI", field(t, entry, "source"))
	assert.Equal(t, "DJF", field(t, entry, "temporal"))
	assert.Equal(t, "seasonal", field(t, entry, "time_period"))
}

func TestParseAMWGObsRejectsBadNames(t *testing.T) {
	_, err := ParseAMWGObs(context.Background(), "/data/noseparators.nc")
	assert.Error(t, err)

	_, err = ParseAMWGObs(context.Background(), "/data/AIRS_13_climo.nc")
	assert.Error(t, err)
}
