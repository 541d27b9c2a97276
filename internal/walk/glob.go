package walk

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Matcher filters discovered paths against include and exclude glob
// patterns. Patterns use shell glob syntax where * also crosses
// directory separators, so `*.log` rejects a .log file at any depth and
// `*/files/*` rejects anything under a files/ directory.
//
// Excludes win over includes. An empty include list accepts every path
// not excluded. A Matcher is safe for concurrent use after creation.
type Matcher struct {
	includes []*regexp.Regexp
	excludes []*regexp.Regexp
}

func NewMatcher(includes, excludes []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pat := range includes {
		re, err := compileGlob(pat)
		if err != nil {
			return nil, err
		}
		m.includes = append(m.includes, re)
	}
	for _, pat := range excludes {
		re, err := compileGlob(pat)
		if err != nil {
			return nil, err
		}
		m.excludes = append(m.excludes, re)
	}
	return m, nil
}

// Match reports whether path should be kept. Path separators are
// normalized to forward slashes before matching.
func (m *Matcher) Match(path string) bool {
	path = filepath.ToSlash(path)
	for _, re := range m.excludes {
		if re.MatchString(path) || re.MatchString(filepath.Base(path)) {
			return false
		}
	}
	if len(m.includes) == 0 {
		return true
	}
	for _, re := range m.includes {
		if re.MatchString(path) || re.MatchString(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// compileGlob translates a glob pattern into an anchored regexp.
// `*` matches any run of characters including separators, `?` matches
// one character, and `[...]` classes carry over with `[!...]` negation
// rewritten to the regexp form.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`\A`)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				b.WriteString(regexp.QuoteMeta(string(c)))
				continue
			}
			class := pattern[i : i+end+1]
			// fnmatch negates with a leading !, regexp with ^.
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString(class)
			i += end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	return regexp.Compile(b.String())
}
