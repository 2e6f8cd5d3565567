package gather

import (
	"fmt"
	"regexp"
	"strings"
)

// ExclusionList filters script URLs against configured domain patterns.
// Each entry is either a plain substring or, when wrapped in slashes
// (`/cdn\./`), a regular expression.
type ExclusionList struct {
	substrings []string
	patterns   []*regexp.Regexp
}

// NewExclusionList parses the configured entries. A malformed regex
// entry is a configuration error and aborts construction; silently
// dropping it would widen the scan against the operator's intent.
func NewExclusionList(entries []string) (*ExclusionList, error) {
	list := &ExclusionList{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if len(entry) > 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
			re, err := regexp.Compile(entry[1 : len(entry)-1])
			if err != nil {
				return nil, fmt.Errorf("compile excluded domain pattern %q: %w", entry, err)
			}
			list.patterns = append(list.patterns, re)
			continue
		}
		list.substrings = append(list.substrings, entry)
	}
	return list, nil
}

// Excluded reports whether the URL matches any configured pattern.
func (l *ExclusionList) Excluded(url string) bool {
	if l == nil {
		return false
	}
	for _, s := range l.substrings {
		if strings.Contains(url, s) {
			return true
		}
	}
	for _, re := range l.patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// Len returns the number of active patterns.
func (l *ExclusionList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.substrings) + len(l.patterns)
}
