package markdown

import (
	"strings"

	"github.com/jmlago/tasksmith/internal/adf"
)

// FormatInline tokenizes one line into an ordered run of text spans
// covering the whole line with no gaps. At each position the scanner
// tries, in fixed order, inline code, bold, then italic; a marker that
// opens no valid pattern passes through as literal text. Marks never
// nest or combine. Total over any input.
func FormatInline(line string) []adf.Node {
	var spans []adf.Node
	rest := line
	for rest != "" {
		if inner, n, ok := matchDelimited(rest, "`"); ok {
			spans = append(spans, adf.MarkedText(inner, adf.MarkCode))
			rest = rest[n:]
			continue
		}
		if inner, n, ok := matchDelimited(rest, "**"); ok {
			spans = append(spans, adf.MarkedText(inner, adf.MarkStrong))
			rest = rest[n:]
			continue
		}
		// Italic is only tried after bold fails, so "**" is never read
		// as two italic markers.
		if inner, n, ok := matchDelimited(rest, "*"); ok {
			spans = append(spans, adf.MarkedText(inner, adf.MarkEm))
			rest = rest[n:]
			continue
		}

		next := strings.IndexAny(rest, "`*")
		switch {
		case next < 0:
			spans = append(spans, adf.Text(rest))
			rest = ""
		case next == 0:
			// An unmatched marker character is literal text.
			spans = append(spans, adf.Text(rest[:1]))
			rest = rest[1:]
		default:
			spans = append(spans, adf.Text(rest[:next]))
			rest = rest[next:]
		}
	}
	if len(spans) == 0 {
		spans = append(spans, adf.Text(""))
	}
	return spans
}

// matchDelimited matches delim + non-empty inner text + delim at the
// start of s, where the inner text may not contain the delimiter's
// marker character. Returns the inner text and total length consumed.
func matchDelimited(s, delim string) (inner string, n int, ok bool) {
	if !strings.HasPrefix(s, delim) {
		return "", 0, false
	}
	body := s[len(delim):]
	end := strings.IndexByte(body, delim[0])
	if end <= 0 || !strings.HasPrefix(body[end:], delim) {
		return "", 0, false
	}
	return body[:end], len(delim)*2 + end, true
}
