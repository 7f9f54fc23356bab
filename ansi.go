package mcumgrclient

import "regexp"

// Matches CSI sequences and the two-character escape forms.
var ansiEscapeRE = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// stripEscapes returns s without ANSI terminal escape sequences.
func stripEscapes(s string) string {
	return ansiEscapeRE.ReplaceAllString(s, "")
}
