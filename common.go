package wit

import "strings"

// CountLines returns the number of lines in s the way diff tooling counts
// them: the newline character is '\n', the empty string has 0 lines, and
// a final line missing its trailing newline still counts.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	nEol := strings.Count(s, "\n")
	if strings.HasSuffix(s, "\n") {
		return nEol
	}
	return nEol + 1
}
