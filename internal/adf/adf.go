// Package adf models the subset of the Atlassian Document Format the
// service writes into issue descriptions: a root doc holding a flat
// sequence of block nodes whose leaves are text spans carrying at most
// one formatting mark.
package adf

// Doc is the root document node. Serialized directly as the
// "description" field of issue create/update payloads.
type Doc struct {
	Version int    `json:"version"`
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node is any non-root node: block nodes (paragraph, heading,
// bulletList, orderedList, listItem, codeBlock) and text leaves.
// Which fields are populated depends on Type.
type Node struct {
	Type    string `json:"type"`
	Attrs   *Attrs `json:"attrs,omitempty"`
	Content []Node `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
}

// Attrs carries the per-type block attributes ADF requires.
type Attrs struct {
	Level    int    `json:"level,omitempty"`    // heading
	Language string `json:"language,omitempty"` // codeBlock
}

// Mark is a single formatting mark on a text span.
type Mark struct {
	Type string `json:"type"`
}

// Mark types used by the converter. A span carries at most one; marks
// never combine.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkCode   = "code"
)

// NewDoc wraps block nodes in a versioned root document.
func NewDoc(blocks []Node) Doc {
	return Doc{Version: 1, Type: "doc", Content: blocks}
}

// Text returns an unmarked text span.
func Text(text string) Node {
	return Node{Type: "text", Text: text}
}

// MarkedText returns a text span carrying exactly one mark.
func MarkedText(text, mark string) Node {
	return Node{Type: "text", Text: text, Marks: []Mark{{Type: mark}}}
}

// Paragraph wraps text spans in a paragraph block.
func Paragraph(spans []Node) Node {
	return Node{Type: "paragraph", Content: spans}
}

// Heading wraps text spans in a heading block at the given level.
func Heading(level int, spans []Node) Node {
	return Node{Type: "heading", Attrs: &Attrs{Level: level}, Content: spans}
}

// ListItem wraps a single paragraph. ADF list items may hold arbitrary
// blocks; the converter only ever produces one single-line paragraph.
func ListItem(paragraph Node) Node {
	return Node{Type: "listItem", Content: []Node{paragraph}}
}

// BulletList wraps list items in an unordered list block.
func BulletList(items []Node) Node {
	return Node{Type: "bulletList", Content: items}
}

// OrderedList wraps list items in an ordered list block.
func OrderedList(items []Node) Node {
	return Node{Type: "orderedList", Content: items}
}

// CodeBlock returns a code block with verbatim, unformatted text.
func CodeBlock(language, raw string) Node {
	return Node{
		Type:    "codeBlock",
		Attrs:   &Attrs{Language: language},
		Content: []Node{Text(raw)},
	}
}
