package parsers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamListOrder(t *testing.T) {
	streams := streamList()
	pos := make(map[string]int, len(streams))
	for i, s := range streams {
		pos[s.Name] = i
	}
	// Longer stream names must be tried before their prefixes.
	assert.Less(t, pos["pop.h.ecosys.nday1"], pos["pop.h.ecosys"])
	assert.Less(t, pos["pop.h.ecosys"], pos["pop.h"])
	assert.Less(t, pos["cice.h1"], pos["cice.h"])
}

func TestMatchStream(t *testing.T) {
	s, before, after, ok := matchStream("b.e11.B1850.f09.001.pop.h.ecosys.nday1.0001-01-01")
	require.True(t, ok)
	assert.Equal(t, "pop.h.ecosys.nday1", s.Name)
	assert.Equal(t, "ocn", s.Component)
	assert.Equal(t, "b.e11.B1850.f09.001.", before)
	assert.Equal(t, ".0001-01-01", after)

	// Case-insensitive.
	s, _, _, ok = matchStream("CASE.CAM.H0.1850-01")
	require.True(t, ok)
	assert.Equal(t, "cam.h0", s.Name)

	_, _, _, ok = matchStream("no.stream.here")
	assert.False(t, ok)
}

func historyFixture(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "b.e11.B1850.f09.001.cam.h0.1850-01.nc")
	writeNC(t, file, nil,
		ncVar{"time", ncapi.Variable{
			Values:     []float64{15.5},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{"units": "days since 1850-01-01"}),
		}},
		ncVar{"lat", ncapi.Variable{
			Values:     []float64{-90, 0, 90},
			Dimensions: []string{"lat"},
		}},
		ncVar{"TS", ncapi.Variable{
			Values:     []float64{273.1},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{
				"long_name": "Surface temperature (radiative)",
				"units":     "K",
			}),
		}},
	)
	return file
}

func TestParseCESMHistory(t *testing.T) {
	file := historyFixture(t)

	entry, err := ParseCESMHistory(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "atm", field(t, entry, "component"))
	assert.Equal(t, "cam.h0", field(t, entry, "stream"))
	assert.Equal(t, "1850-01", field(t, entry, "date"))
	assert.Equal(t, "b.e11.B1850.f09.001", field(t, entry, "case"))
	assert.Equal(t, "001", field(t, entry, "member_id"))
	// No time_period_freq attribute: the stream default applies.
	assert.Equal(t, "month_1", field(t, entry, "frequency"))
	assert.Equal(t, []string{"TS"}, field(t, entry, "variables"))
	assert.Equal(t, file, field(t, entry, "path"))
}

func TestParseCESMHistoryFrequencyAttrWins(t *testing.T) {
	file := filepath.Join(t.TempDir(), "b.e11.B1850.f09.001.cam.h1.1850-01-01.nc")
	writeNC(t, file, map[string]any{"time_period_freq": "day_5"},
		ncVar{"time", ncapi.Variable{
			Values:     []float64{0},
			Dimensions: []string{"time"},
		}},
	)

	entry, err := ParseCESMHistory(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "day_5", field(t, entry, "frequency"))
}

func TestParseCESMHistoryUnknownStream(t *testing.T) {
	_, err := ParseCESMHistory(context.Background(), "/data/no.stream.here.nc")
	assert.Error(t, err)
}

func TestParseCESMTimeseries(t *testing.T) {
	file := filepath.Join(t.TempDir(), "b.e11.B1850.f09.001.cam.h0.TS.185001-185012.nc")
	writeNC(t, file, map[string]any{"time_period_freq": "month_1"},
		ncVar{"time", ncapi.Variable{
			Values:     []float64{15.5, 45.5},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{"units": "days since 1850-01-01"}),
		}},
		ncVar{"TS", ncapi.Variable{
			Values:     []float64{273.1, 274.2},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{
				"long_name": "Surface temperature (radiative)",
				"units":     "K",
			}),
		}},
	)

	entry, err := ParseCESMTimeseries(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "atm", field(t, entry, "component"))
	assert.Equal(t, "cam.h0", field(t, entry, "stream"))
	assert.Equal(t, "b.e11.B1850.f09.001", field(t, entry, "case"))
	assert.Equal(t, "001", field(t, entry, "member_id"))
	assert.Equal(t, "TS", field(t, entry, "variable"))
	assert.Equal(t, "1850-01", field(t, entry, "start_time"))
	assert.Equal(t, "1850-12", field(t, entry, "end_time"))
	assert.Equal(t, "185001-185012", field(t, entry, "time_range"))
	assert.Equal(t, "Surface temperature (radiative)", field(t, entry, "long_name"))
	assert.Equal(t, "K", field(t, entry, "units"))
	assert.Equal(t, 1, field(t, entry, "vertical_levels"))
	assert.Equal(t, "month_1", field(t, entry, "frequency"))
}

func TestParseCESMTimeseriesRejectsHistoryName(t *testing.T) {
	// A history file has a bare date after the stream, not
	// <variable>.<date range>.
	_, err := ParseCESMTimeseries(context.Background(), "/data/b.e11.001.cam.h0.nc")
	assert.Error(t, err)
}

func TestParseSMYLE(t *testing.T) {
	caseName := "b.e21.BSMYLE.f09_g17.1970-01.001"
	dir := filepath.Join(t.TempDir(), caseName, "atm", "proc", "tseries", "month_1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, caseName+".cam.h0.TS.197001-197203.nc")

	writeNC(t, file, nil,
		ncVar{"time", ncapi.Variable{
			Values:     []float64{15.5},
			Dimensions: []string{"time"},
		}},
		ncVar{"TS", ncapi.Variable{
			Values:     []float64{273.1},
			Dimensions: []string{"time"},
			Attributes: attrMap(t, map[string]any{
				"long_name": "Surface Temperature",
				"units":     "K",
			}),
		}},
	)

	entry, err := ParseSMYLE(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "atm", field(t, entry, "component"))
	assert.Equal(t, caseName, field(t, entry, "case"))
	assert.Equal(t, "BSMYLE", field(t, entry, "experiment"))
	assert.Equal(t, "TS", field(t, entry, "variable"))
	assert.Equal(t, "surface temperature", field(t, entry, "long_name"))
	assert.Equal(t, "month_1", field(t, entry, "frequency"))
	assert.Equal(t, "cam.h0", field(t, entry, "stream"))
	assert.Equal(t, "001", field(t, entry, "member_id"))
	assert.Equal(t, 1970, field(t, entry, "init_year"))
	assert.Equal(t, 1, field(t, entry, "init_month"))
	assert.Equal(t, "K", field(t, entry, "units"))
	assert.Equal(t, "global", field(t, entry, "spatial_domain"))
	assert.Equal(t, "f09_g17", field(t, entry, "grid"))
	assert.Equal(t, "1970-01", field(t, entry, "start_time"))
	assert.Equal(t, "1972-03", field(t, entry, "end_time"))
}
