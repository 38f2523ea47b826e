package jira

import "strings"

// SanitizeNewlines normalizes line endings in text headed for a JSON
// payload. The generator occasionally emits the two-character sequence
// `\n` instead of a real newline, which would otherwise surface
// verbatim in the rendered description; CRLF pairs are folded for the
// same reason.
func SanitizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}
