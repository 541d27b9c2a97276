package parsers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/ncar-xdev/ecgtools/api"
)

// ParseAMWGObs harvests metadata from an AMWG observational climatology
// file named <source>_<temporal>_<suffix>.nc, where a two-digit
// temporal field is a month number (monthly climatology) and anything
// else is a season code like DJF (seasonal climatology).
func ParseAMWGObs(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stem := fileStem(file)
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%s: expected <source>_<temporal>_... in file name", file)
	}
	source := parts[0]
	temporal := parts[len(parts)-2]
	timePeriod := "seasonal"
	if len(temporal) == 2 {
		month, err := strconv.Atoi(temporal)
		if err != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("%s: bad month number %q", file, temporal)
		}
		timePeriod = "monthly"
		temporal = strings.ToUpper(time.Month(month).String()[:3])
	}

	g, err := netcdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer g.Close()

	// One row per file: the data variables become a list column, as in
	// the CESM history parser.
	timeName := "time"
	var timeBounds string
	if vg, err := g.GetVarGetter(timeName); err == nil {
		timeBounds = attrString(vg.Attributes(), "bounds")
	}
	var variables []string
	for _, name := range g.ListVariables() {
		if name == timeName || name == timeBounds {
			continue
		}
		vg, err := g.GetVarGetter(name)
		if err != nil {
			continue
		}
		for _, dim := range vg.Dimensions() {
			if dim == timeName {
				variables = append(variables, name)
				break
			}
		}
	}

	entry := api.NewEntry()
	entry.Set("source", source)
	entry.Set("temporal", temporal)
	entry.Set("time_period", timePeriod)
	entry.Set("variables", variables)
	entry.Set("path", file)
	return entry, nil
}
