package scanner

import (
	"regexp"
	"time"
)

// DefaultMatchTimeout is the default wall-clock budget for running one
// regex over one content buffer.
const DefaultMatchTimeout = 500 * time.Millisecond

// Match is one raw regex match before validation.
type Match struct {
	// Index is the 0-based offset of the full match in the content.
	Index int

	// Length is the byte length of the full match.
	Length int

	// Groups holds the full match at index 0 followed by capture group
	// texts. A group that did not participate is the empty string.
	Groups []string
}

// MatchAllBounded collects all matches of re in content, stopping early
// once the wall-clock budget is exhausted. It returns the matches found
// so far and whether the search was truncated.
//
// The deadline is checked between match iterations only; a single match
// step already in progress cannot be preempted. Rule patterns are data
// (users can supply them), so the budget is the defense against
// pathological patterns or adversarial content hanging the scan.
//
// Resuming after a match must not let ^, \A or \b treat the resume
// point as the start of the text. Past the first match the search runs
// a shifted pattern against a window that includes the rune before the
// resume point, so those assertions see the true neighborhood of the
// cut and the result agrees with a single global search.
func MatchAllBounded(re *regexp.Regexp, content string, timeout time.Duration) ([]Match, bool) {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	deadline := time.Now().Add(timeout)

	// shifted requires one rune of left context before each match of
	// re. Group 1 is re's whole match; re's own groups shift up by one.
	shifted, shiftErr := regexp.Compile(`(?s:.)(` + re.String() + `)`)

	var matches []Match
	offset := 0
	for offset <= len(content) {
		if time.Now().After(deadline) {
			return matches, true
		}

		var loc []int
		skip := 0
		if offset == 0 || shiftErr != nil {
			loc = re.FindStringSubmatchIndex(content[offset:])
			addOffsets(loc, offset)
		} else {
			loc = shifted.FindStringSubmatchIndex(content[offset-1:])
			addOffsets(loc, offset-1)
			skip = 1
		}
		if loc == nil {
			break
		}

		start, end := loc[2*skip], loc[2*skip+1]
		groups := make([]string, len(loc)/2-skip)
		for i := skip; i < len(loc)/2; i++ {
			if loc[2*i] < 0 {
				continue
			}
			groups[i-skip] = content[loc[2*i]:loc[2*i+1]]
		}

		matches = append(matches, Match{
			Index:  start,
			Length: end - start,
			Groups: groups,
		})

		// Advance past the match; zero-length matches step one byte so
		// the loop always makes progress.
		if end > start {
			offset = end
		} else {
			offset = end + 1
		}
	}

	return matches, false
}

// addOffsets shifts participating group positions by n.
func addOffsets(loc []int, n int) {
	for i, v := range loc {
		if v >= 0 {
			loc[i] = v + n
		}
	}
}

// Group returns the capture group text at index i, or the empty string
// when the group does not exist or did not participate in the match.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}
