// Package markdown converts loosely formatted Markdown, as produced by
// the text generator, into the ADF document tree Jira expects. It is a
// line-oriented heuristic converter, not a CommonMark implementation:
// every input produces a valid document, malformed syntax degrades to
// literal text, and conversion never fails.
package markdown

import (
	"strings"

	"github.com/jmlago/tasksmith/internal/adf"
)

const fence = "```"

// Convert builds an ADF document from a Markdown string. A single
// forward pass classifies each line run into one block: fenced code,
// heading, bullet list, ordered list, or paragraph. Blank lines
// separate blocks and are never materialized. The result always holds
// at least one block.
func Convert(markdown string) adf.Doc {
	lines := strings.Split(markdown, "\n")

	var blocks []adf.Node
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
			i++
		case strings.HasPrefix(trimmed, fence):
			block, next := consumeCodeBlock(lines, i)
			blocks = append(blocks, block)
			i = next
		case isHeadingLine(trimmed):
			blocks = append(blocks, buildHeading(trimmed))
			i++
		case isBulletItem(trimmed):
			block, next := consumeList(lines, i, isBulletItem, bulletItemText, adf.BulletList)
			blocks = append(blocks, block)
			i = next
		case isOrderedItem(trimmed):
			block, next := consumeList(lines, i, isOrderedItem, orderedItemText, adf.OrderedList)
			blocks = append(blocks, block)
			i = next
		default:
			blocks = append(blocks, adf.Paragraph(FormatInline(trimmed)))
			i++
		}
	}

	// Whitespace-only input still yields a renderable document.
	if len(blocks) == 0 {
		blocks = append(blocks, adf.Paragraph([]adf.Node{adf.Text("")}))
	}
	return adf.NewDoc(blocks)
}

// consumeCodeBlock captures everything between a fence line and its
// closer verbatim. An unterminated fence swallows the rest of the
// input as code rather than failing.
func consumeCodeBlock(lines []string, i int) (adf.Node, int) {
	language := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), fence))
	if language == "" {
		language = "plaintext"
	}

	var body []string
	j := i + 1
	for j < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), fence) {
			j++ // consume the closing fence
			break
		}
		body = append(body, lines[j])
		j++
	}
	return adf.CodeBlock(language, strings.Join(body, "\n")), j
}

// isHeadingLine reports whether a line is entirely one bold span, the
// generator's convention for section headings. Lines containing ":**"
// are bold field labels ("**Goal:** ...") and stay paragraphs.
func isHeadingLine(trimmed string) bool {
	return len(trimmed) >= 4 &&
		strings.HasPrefix(trimmed, "**") &&
		strings.HasSuffix(trimmed, "**") &&
		!strings.Contains(trimmed, ":**")
}

func buildHeading(trimmed string) adf.Node {
	text := strings.TrimSpace(strings.ReplaceAll(trimmed, "**", ""))
	return adf.Heading(3, FormatInline(text))
}

func isBulletItem(trimmed string) bool {
	return strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ")
}

func bulletItemText(trimmed string) string {
	return trimmed[2:]
}

// isOrderedItem matches "<digits>. " at the start of the trimmed line.
func isOrderedItem(trimmed string) bool {
	_, ok := splitOrderedPrefix(trimmed)
	return ok
}

// orderedItemText drops the numeric prefix; original numbering is not
// preserved, the list renders with its own sequence.
func orderedItemText(trimmed string) string {
	rest, _ := splitOrderedPrefix(trimmed)
	return rest
}

func splitOrderedPrefix(trimmed string) (string, bool) {
	n := 0
	for n < len(trimmed) && trimmed[n] >= '0' && trimmed[n] <= '9' {
		n++
	}
	if n == 0 || !strings.HasPrefix(trimmed[n:], ". ") {
		return "", false
	}
	return trimmed[n+2:], true
}

// consumeList greedily takes every immediately following line that is
// an item of the same list kind. Lists never span blank lines or other
// block types.
func consumeList(lines []string, i int, matches func(string) bool, itemText func(string) string, wrap func([]adf.Node) adf.Node) (adf.Node, int) {
	var items []adf.Node
	j := i
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j])
		if !matches(trimmed) {
			break
		}
		items = append(items, adf.ListItem(adf.Paragraph(FormatInline(itemText(trimmed)))))
		j++
	}
	return wrap(items), j
}
