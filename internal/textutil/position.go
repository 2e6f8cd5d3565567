package textutil

import "strings"

// Position is a 1-based line/column location inside a text buffer.
type Position struct {
	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column number.
	Column int
}

// PositionOf maps a 0-based byte index into content to its line and
// column. The line is one plus the number of newlines before index; the
// column counts bytes since the last newline (or since the start).
// Indexes out of range are clamped to the buffer bounds.
//
// The index must refer to the same decoded buffer the scanner matched
// against, otherwise reported positions drift from the visible content.
func PositionOf(content string, index int) Position {
	if index < 0 {
		index = 0
	}
	if index > len(content) {
		index = len(content)
	}

	prefix := content[:index]
	line := strings.Count(prefix, "\n") + 1

	column := index + 1
	if last := strings.LastIndexByte(prefix, '\n'); last >= 0 {
		column = index - last
	}

	return Position{Line: line, Column: column}
}
