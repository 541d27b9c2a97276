package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/ncar-xdev/ecgtools/api"
)

// Stream is one CESM history output stream and the component and
// default frequency it implies.
type Stream struct {
	Name      string
	Component string
	Frequency string
}

// defaultStreams maps CESM output stream names to their component and
// default output frequency. The frequency is only a fallback: files
// carrying a time_period_freq global attribute win.
var defaultStreams = map[string]Stream{
	"cam.h0":              {Component: "atm", Frequency: "month_1"},
	"cam.h1":              {Component: "atm", Frequency: "day_1"},
	"cam.h2":              {Component: "atm", Frequency: "hour_6"},
	"cam.h3":              {Component: "atm", Frequency: "hour_3"},
	"cam.h4":              {Component: "atm", Frequency: "hour_1"},
	"cam.h5":              {Component: "atm", Frequency: "subhour_3"},
	"cam.h6":              {Component: "atm", Frequency: "day_1"},
	"cam.h7":              {Component: "atm", Frequency: "day_5"},
	"cam.h8":              {Component: "atm", Frequency: "day_10"},
	"clm2.h0":             {Component: "lnd", Frequency: "month_1"},
	"clm2.h1":             {Component: "lnd", Frequency: "day_1"},
	"clm2.h2":             {Component: "lnd", Frequency: "day_1"},
	"clm2.h3":             {Component: "lnd", Frequency: "day_1"},
	"clm2.h4":             {Component: "lnd", Frequency: "day_365"},
	"clm2.h5":             {Component: "lnd", Frequency: "day_365"},
	"clm2.h6":             {Component: "lnd", Frequency: "day_1"},
	"clm2.h7":             {Component: "lnd", Frequency: "hour_6"},
	"clm2.h8":             {Component: "lnd", Frequency: "hour_3"},
	"clm.h1":              {Component: "lnd", Frequency: "month_1"},
	"clm.h2":              {Component: "lnd", Frequency: "month_1"},
	"clm.h3":              {Component: "lnd", Frequency: "day_365"},
	"clm.h4":              {Component: "lnd", Frequency: "day_365"},
	"clm.h5":              {Component: "lnd", Frequency: "day_1"},
	"clm.h6":              {Component: "lnd", Frequency: "day_1"},
	"clm.h7":              {Component: "lnd", Frequency: "hour_3"},
	"clm.h8":              {Component: "lnd", Frequency: "day_1"},
	"mosart.h0":           {Component: "rof", Frequency: "month_1"},
	"mosart.h1":           {Component: "rof", Frequency: "day_1"},
	"mosart.h2":           {Component: "rof", Frequency: "hour_6"},
	"mosart.h3":           {Component: "rof", Frequency: "hour_3"},
	"rtm.h0":              {Component: "rof", Frequency: "month_1"},
	"rtm.h1":              {Component: "rof", Frequency: "day_1"},
	"pop.h":               {Component: "ocn", Frequency: "month_1"},
	"pop.h.nday1":         {Component: "ocn", Frequency: "day_1"},
	"pop.h.nyear1":        {Component: "ocn", Frequency: "year_1"},
	"pop.h.ecosys":        {Component: "ocn", Frequency: "month_1"},
	"pop.h.ecosys.nday1":  {Component: "ocn", Frequency: "day_1"},
	"pop.h.ecosys.nday5":  {Component: "ocn", Frequency: "day_5"},
	"pop.h.ecosys.nyear1": {Component: "ocn", Frequency: "year_1"},
	"cice.h":              {Component: "ice", Frequency: "month_1"},
	"cice.h1":             {Component: "ice", Frequency: "day_1"},
	"cism.h":              {Component: "glc", Frequency: "year_1"},
	"cism.h1":             {Component: "glc", Frequency: "month_1"},
	"ww3.h":               {Component: "wav", Frequency: "month_1"},
}

// streamList returns the streams sorted by name in reverse order.
// Reverse order matters: pop.h.ecosys.nday1 must be tried before pop.h
// or the shorter name wins the match.
func streamList() []Stream {
	names := make([]string, 0, len(defaultStreams))
	for name := range defaultStreams {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	streams := make([]Stream, len(names))
	for i, name := range names {
		s := defaultStreams[name]
		s.Name = name
		streams[i] = s
	}
	return streams
}

// matchStream finds the output stream encoded in a file stem and
// splits the stem around it, case-insensitively.
func matchStream(stem string) (stream Stream, before, after string, ok bool) {
	lower := strings.ToLower(stem)
	for _, s := range streamList() {
		idx := strings.Index(lower, strings.ToLower(s.Name))
		if idx < 0 {
			continue
		}
		return s, stem[:idx], stem[idx+len(s.Name):], true
	}
	return Stream{}, "", "", false
}

func fileStem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func memberFromCase(caseName string) string {
	parts := strings.Split(caseName, ".")
	return parts[len(parts)-1]
}

// ParseCESMHistory harvests metadata from a CESM history file
// (one stream, many variables per file).
func ParseCESMHistory(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stem := fileStem(file)
	stream, before, after, ok := matchStream(stem)
	if !ok {
		return nil, fmt.Errorf("%s: no known CESM stream in file name", file)
	}

	entry := api.NewEntry()
	entry.Set("component", stream.Component)
	entry.Set("stream", stream.Name)
	entry.Set("date", strings.Trim(after, "."))
	caseName := strings.Trim(before, ".")
	entry.Set("case", caseName)
	entry.Set("member_id", memberFromCase(caseName))

	g, err := netcdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer g.Close()

	timeName := "time"
	var timeBounds string
	if vg, err := g.GetVarGetter(timeName); err == nil {
		timeBounds = attrString(vg.Attributes(), "bounds")
	}

	// Catalog every variable laid out along time, excluding the time
	// coordinate itself and its bounds.
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

	frequency := attrString(g.Attributes(), "time_period_freq")
	if frequency == "" {
		frequency = stream.Frequency
	}
	entry.Set("frequency", frequency)
	entry.Set("variables", variables)
	entry.Set("path", file)
	return entry, nil
}

// ParseCESMTimeseries harvests metadata from a CESM single-variable
// timeseries file named <case>.<stream>.<variable>.<date range>.nc.
func ParseCESMTimeseries(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stem := fileStem(file)
	stream, before, after, ok := matchStream(stem)
	if !ok || strings.Trim(after, ".") == "" {
		return nil, fmt.Errorf("%s: no known CESM stream in file name", file)
	}

	entry := api.NewEntry()
	entry.Set("component", stream.Component)
	entry.Set("stream", stream.Name)
	caseName := strings.Trim(before, ".")
	entry.Set("case", caseName)
	entry.Set("member_id", memberFromCase(caseName))

	rest := strings.Split(strings.Trim(after, "."), ".")
	if len(rest) < 2 {
		return nil, fmt.Errorf("%s: expected <variable>.<date range> after the stream name", file)
	}
	variable := rest[len(rest)-2]
	dateRange := rest[len(rest)-1]
	start, end, found := strings.Cut(dateRange, "-")
	if !found {
		return nil, fmt.Errorf("%s: malformed date range %q", file, dateRange)
	}
	entry.Set("variable", variable)
	entry.Set("start_time", ParseDate(start))
	entry.Set("end_time", ParseDate(end))
	entry.Set("time_range", dateRange)

	g, err := netcdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer g.Close()

	vg, err := g.GetVarGetter(variable)
	if err != nil {
		return nil, fmt.Errorf("%s: variable %q not found: %w", file, variable, err)
	}
	varAttrs := vg.Attributes()
	entry.Set("long_name", attrString(varAttrs, "long_name"))
	entry.Set("units", attrString(varAttrs, "units"))
	entry.Set("vertical_levels", verticalLevels(g))

	frequency := attrString(g.Attributes(), "time_period_freq")
	if frequency == "" {
		frequency = stream.Frequency
	}
	entry.Set("frequency", frequency)
	entry.Set("path", file)
	return entry, nil
}

var smyleDateRegex = regexp.MustCompile(`\d{10}-\d{10}|\d{8}-\d{8}|\d{6}-\d{6}|\d{4}-\d{4}`)

// smyleRegions maps components to standard spatial domain names.
var smyleRegions = map[string]string{
	"atm": "global",
	"ocn": "global_ocean",
	"lnd": "global_land",
	"ice": "global",
}

// ParseSMYLE harvests metadata for the CESM2 Seasonal-to-Multiyear
// Large Ensemble, whose directory layout is
// .../<case>/<component>/proc/tseries/<frequency>/<file>.
func ParseSMYLE(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := strings.Split(filepath.ToSlash(file), "/")
	if len(parts) < 6 {
		return nil, fmt.Errorf("%s: path too shallow for the SMYLE layout", file)
	}
	caseName := parts[len(parts)-6]
	component := parts[len(parts)-5]
	frequency := parts[len(parts)-2]
	base := parts[len(parts)-1]

	dateRange := smyleDateRegex.FindString(base)
	if dateRange == "" {
		return nil, fmt.Errorf("%s: no date range in file name", file)
	}
	start, end, _ := strings.Cut(dateRange, "-")

	// <case>.<stream>.<variable>.<date range>.nc
	prefix := strings.Trim(strings.Split(base, dateRange)[0], ".")
	segs := strings.Split(prefix, ".")
	if len(segs) < 3 {
		return nil, fmt.Errorf("%s: cannot split stream and variable from file name", file)
	}
	variable := segs[len(segs)-1]
	stream := strings.Join(segs[len(segs)-3:len(segs)-1], ".")

	// Case names look like <experiment>.<grid>.<init year>-<init month>.<member>.
	initPart := ExtractWithRegex(caseName, `\d{4}-\d{2}\.\d{3}`, "")
	if initPart == "" {
		return nil, fmt.Errorf("%s: no initialization stamp in case %q", file, caseName)
	}
	stamp := strings.Split(initPart, ".")
	inits := strings.Split(stamp[0], "-")
	initYear, err := strconv.Atoi(inits[0])
	if err != nil {
		return nil, fmt.Errorf("%s: bad init year in %q", file, initPart)
	}
	initMonth, err := strconv.Atoi(inits[1])
	if err != nil {
		return nil, fmt.Errorf("%s: bad init month in %q", file, initPart)
	}
	memberID := stamp[len(stamp)-1]

	head := strings.Split(strings.Trim(strings.Split(caseName, stamp[0])[0], "."), ".")
	if len(head) < 2 {
		return nil, fmt.Errorf("%s: cannot split experiment and grid from case %q", file, caseName)
	}
	experiment := head[len(head)-2]
	grid := head[len(head)-1]

	g, err := netcdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer g.Close()

	vg, err := g.GetVarGetter(variable)
	if err != nil {
		return nil, fmt.Errorf("%s: variable %q not found: %w", file, variable, err)
	}
	varAttrs := vg.Attributes()

	spatialDomain, ok := smyleRegions[component]
	if !ok {
		spatialDomain = "global"
	}

	entry := api.NewEntry()
	entry.Set("component", component)
	entry.Set("case", caseName)
	entry.Set("experiment", experiment)
	entry.Set("variable", variable)
	entry.Set("long_name", strings.ToLower(attrString(varAttrs, "long_name")))
	entry.Set("frequency", frequency)
	entry.Set("stream", stream)
	entry.Set("member_id", memberID)
	entry.Set("init_year", initYear)
	entry.Set("init_month", initMonth)
	entry.Set("vertical_levels", verticalLevels(g))
	entry.Set("units", attrString(varAttrs, "units"))
	entry.Set("spatial_domain", spatialDomain)
	entry.Set("grid", grid)
	entry.Set("start_time", ParseDate(start))
	entry.Set("end_time", ParseDate(end))
	entry.Set("path", file)
	return entry, nil
}
