package textutil

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// IsText reports whether b decodes as UTF-8 text. A NUL byte is treated as
// binary content even though it is valid UTF-8.
func IsText(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexByte(b, 0) < 0
}

// SplitLinesKeepEOL splits s after every '\n' so each element keeps its own
// terminator ("\n" or "\r\n"). A final line without a terminator is kept as
// is. Joining the result with no separator yields s again.
func SplitLinesKeepEOL(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty chunk behind a trailing '\n'.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines concatenates lines that already carry their terminators.
func JoinLines(lines []string) []byte {
	n := 0
	for _, l := range lines {
		n += len(l)
	}
	out := make([]byte, 0, n)
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}
