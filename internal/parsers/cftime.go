package parsers

import (
	"strings"
	"time"
)

// cfUnits maps the time-coordinate unit word from a CF units string
// ("days since 1850-01-01") to a duration.
var cfUnits = map[string]time.Duration{
	"second":  time.Second,
	"seconds": time.Second,
	"s":       time.Second,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"min":     time.Minute,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"h":       time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"d":       24 * time.Hour,
}

var cfBaseLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
}

// DecodeCFTime renders a numeric time-coordinate value with a CF units
// string as an ISO timestamp. Arithmetic is proleptic Gregorian; model
// calendars like noleap will drift from this, which is acceptable for
// catalog time ranges.
func DecodeCFTime(value float64, units string) (string, bool) {
	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return "", false
	}
	step, ok := cfUnits[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return "", false
	}

	baseStr := strings.TrimSpace(parts[1])
	// Drop timezone suffixes some writers append ("... 00:00:00 UTC").
	baseStr = strings.TrimSuffix(baseStr, " UTC")
	baseStr = strings.TrimSuffix(baseStr, "Z")

	var base time.Time
	var err error
	for _, layout := range cfBaseLayouts {
		base, err = time.Parse(layout, baseStr)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", false
	}

	t := base.Add(time.Duration(value * float64(step)))
	return t.UTC().Format("2006-01-02T15:04:05"), true
}
