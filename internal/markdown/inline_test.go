package markdown

import (
	"strings"
	"testing"

	"github.com/jmlago/tasksmith/internal/adf"
)

type span struct {
	text string
	mark string
}

func spansOf(nodes []adf.Node) []span {
	out := make([]span, 0, len(nodes))
	for _, n := range nodes {
		s := span{text: n.Text}
		if len(n.Marks) > 0 {
			s.mark = n.Marks[0].Type
		}
		out = append(out, s)
	}
	return out
}

func assertSpans(t *testing.T, line string, want []span) {
	t.Helper()
	got := spansOf(FormatInline(line))
	if len(got) != len(want) {
		t.Fatalf("line %q: expected %d spans, got %d: %v", line, len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %q: span %d: expected %+v, got %+v", line, i, want[i], got[i])
		}
	}
}

func TestFormatInline_PlainText(t *testing.T) {
	assertSpans(t, "just words", []span{{"just words", ""}})
}

func TestFormatInline_PrecedenceOrder(t *testing.T) {
	assertSpans(t, "`code` and **bold** and *italic*", []span{
		{"code", adf.MarkCode},
		{" and ", ""},
		{"bold", adf.MarkStrong},
		{" and ", ""},
		{"italic", adf.MarkEm},
	})
}

func TestFormatInline_CodeOutranksEmphasis(t *testing.T) {
	// A code pattern opening first swallows emphasis markers as
	// literal inner text.
	assertSpans(t, "`a **b**` tail", []span{
		{"a **b**", adf.MarkCode},
		{" tail", ""},
	})
	// Conversely, a bold pattern matched at the cursor keeps its inner
	// backticks literal; marks never nest.
	assertSpans(t, "**a `b` c**", []span{
		{"a `b` c", adf.MarkStrong},
	})
}

func TestFormatInline_DoubleAsteriskNeverReadAsItalic(t *testing.T) {
	assertSpans(t, "**bold**", []span{{"bold", adf.MarkStrong}})
	// A stray double asterisk degrades to two literal characters, not
	// an empty italic span.
	assertSpans(t, "**", []span{{"*", ""}, {"*", ""}})
}

func TestFormatInline_UnmatchedMarkersAreLiteral(t *testing.T) {
	assertSpans(t, "a * b", []span{
		{"a ", ""},
		{"*", ""},
		{" b", ""},
	})
	assertSpans(t, "`open", []span{
		{"`", ""},
		{"open", ""},
	})
	assertSpans(t, "*", []span{{"*", ""}})
}

func TestFormatInline_EmptyDelimitersAreLiteral(t *testing.T) {
	assertSpans(t, "``", []span{{"`", ""}, {"`", ""}})
	assertSpans(t, "a ** b", []span{
		{"a ", ""},
		{"*", ""},
		{"*", ""},
		{" b", ""},
	})
}

func TestFormatInline_NoNestedMarks(t *testing.T) {
	// Italic inside bold is out of contract: the inner asterisks close
	// the bold candidate early, so nothing nests.
	for _, line := range []string{"**a *b* c**", "*a `b` c*", "`a **b** c`"} {
		for _, n := range FormatInline(line) {
			if len(n.Marks) > 1 {
				t.Errorf("line %q: span %q carries %d marks", line, n.Text, len(n.Marks))
			}
		}
	}
}

func TestFormatInline_EmptyLine(t *testing.T) {
	assertSpans(t, "", []span{{"", ""}})
}

func TestFormatInline_CoversWholeLine(t *testing.T) {
	lines := []string{
		"plain",
		"`c` **b** *i*",
		"**unterminated and `mixed",
		"***",
		"tail`",
	}
	for _, line := range lines {
		var sb strings.Builder
		for _, n := range FormatInline(line) {
			sb.WriteString(n.Text)
		}
		got := sb.String()
		if line == "plain" && got != line {
			t.Errorf("plain line must round-trip, got %q", got)
		}
		if got == "" && line != "" {
			t.Errorf("line %q: spans must cover the text, got empty", line)
		}
	}
}
