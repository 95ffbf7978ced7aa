package domain

import "strings"

// Conflict marker tokens written by Git around unresolved hunks.
const (
	MarkerOurs      = "<<<<<<<"
	MarkerSeparator = "======="
	MarkerTheirs    = ">>>>>>>"
)

// minMarkerSize is Git's default conflict-marker-size.
const minMarkerSize = len(MarkerOurs)

// HasConflictMarkers reports whether text contains a line that starts with one
// of Git's conflict markers. A marker is a run of at least seven '<', '=' or
// '>' characters at the start of a line, followed by a space or the end of the
// line, so longer markers from a custom conflict-marker-size are found too.
func HasConflictMarkers(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		switch line[0] {
		case '<', '=', '>':
			if isMarkerLine(line, line[0]) {
				return true
			}
		}
	}
	return false
}

func isMarkerLine(line string, ch byte) bool {
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < minMarkerSize {
		return false
	}
	rest := line[n:]
	return rest == "" || rest[0] == ' '
}
