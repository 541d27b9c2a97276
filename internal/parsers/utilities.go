package parsers

import (
	"regexp"
	"strings"
)

// ExtractWithRegex returns the longest case-insensitive match of
// pattern in input, trimmed of stripChars (whitespace when empty).
// Returns "" when nothing matches.
func ExtractWithRegex(input, pattern, stripChars string) string {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return ""
	}
	matches := re.FindAllString(input, -1)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if len(m) > len(best) {
			best = m
		}
	}
	if stripChars == "" {
		return strings.TrimSpace(best)
	}
	return strings.Trim(best, stripChars)
}

// ReverseTemplate matches a string against filename templates like
//
//	{variable_id}_{table_id}_{source_id}_{experiment_id}.nc
//
// and returns the field values that would reproduce it. Templates are
// tried in order; the first that matches wins. Returns nil when none
// match.
func ReverseTemplate(s string, templates ...string) map[string]string {
	for _, tmpl := range templates {
		re, names, err := compileTemplate(tmpl)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		fields := make(map[string]string, len(names))
		for i, name := range names {
			fields[name] = m[i+1]
		}
		return fields
	}
	return nil
}

func compileTemplate(tmpl string) (*regexp.Regexp, []string, error) {
	var b strings.Builder
	var names []string
	b.WriteString(`\A`)
	for len(tmpl) > 0 {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(regexp.QuoteMeta(tmpl))
			break
		}
		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			b.WriteString(regexp.QuoteMeta(tmpl))
			break
		}
		b.WriteString(regexp.QuoteMeta(tmpl[:open]))
		names = append(names, tmpl[open+1:open+closing])
		b.WriteString(`(.+?)`)
		tmpl = tmpl[open+closing+1:]
	}
	b.WriteString(`\z`)
	re, err := regexp.Compile(b.String())
	return re, names, err
}

// ParseDate normalizes the compact date stamps found in model output
// filenames (YYYY, YYYYMM, YYYYMMDD, YYYYMMDDHH and the 16-character
// daily form) to ISO-style strings. Unrecognized lengths pass through
// unchanged.
func ParseDate(date string) string {
	switch len(date) {
	case 16:
		return date[:4] + "-" + date[5:7] + "-" + date[8:10]
	case 10:
		return date[:4] + "-" + date[4:6] + "-" + date[6:8] + "T" + date[8:]
	case 8:
		return date[:4] + "-" + date[4:6] + "-" + date[6:]
	case 6:
		return date[:4] + "-" + date[4:]
	default:
		return date
	}
}
