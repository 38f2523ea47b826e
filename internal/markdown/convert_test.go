package markdown

import (
	"reflect"
	"testing"

	"github.com/jmlago/tasksmith/internal/adf"
)

func TestConvert_EmptyInputYieldsEmptyParagraph(t *testing.T) {
	for _, input := range []string{"", "   ", "   \n\n", "\n\t\n"} {
		doc := Convert(input)
		if len(doc.Content) != 1 {
			t.Fatalf("input %q: expected 1 block, got %d", input, len(doc.Content))
		}
		p := doc.Content[0]
		if p.Type != "paragraph" {
			t.Errorf("input %q: expected paragraph, got %s", input, p.Type)
		}
		if len(p.Content) != 1 || p.Content[0].Text != "" || len(p.Content[0].Marks) != 0 {
			t.Errorf("input %q: expected single empty unmarked span, got %+v", input, p.Content)
		}
	}
}

func TestConvert_BlankLinesSeparateButNeverMaterialize(t *testing.T) {
	doc := Convert("a\n\nb")
	if len(doc.Content) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Content))
	}
	for i, want := range []string{"a", "b"} {
		block := doc.Content[i]
		if block.Type != "paragraph" {
			t.Errorf("block %d: expected paragraph, got %s", i, block.Type)
		}
		if got := block.Content[0].Text; got != want {
			t.Errorf("block %d: expected text %q, got %q", i, want, got)
		}
	}
}

func TestConvert_CodeBlockCapture(t *testing.T) {
	doc := Convert("```js\nconst x=1;\n```")
	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	cb := doc.Content[0]
	if cb.Type != "codeBlock" {
		t.Fatalf("expected codeBlock, got %s", cb.Type)
	}
	if cb.Attrs == nil || cb.Attrs.Language != "js" {
		t.Errorf("expected language js, got %+v", cb.Attrs)
	}
	if got := cb.Content[0].Text; got != "const x=1;" {
		t.Errorf("expected raw text %q, got %q", "const x=1;", got)
	}
}

func TestConvert_CodeBlockDefaultLanguage(t *testing.T) {
	doc := Convert("```\nfoo\n```")
	if lang := doc.Content[0].Attrs.Language; lang != "plaintext" {
		t.Errorf("expected plaintext default, got %q", lang)
	}
}

func TestConvert_UnterminatedFenceSwallowsRest(t *testing.T) {
	doc := Convert("```\nline1\nline2")
	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	if got := doc.Content[0].Content[0].Text; got != "line1\nline2" {
		t.Errorf("expected raw text %q, got %q", "line1\nline2", got)
	}
}

func TestConvert_CodeContentIsVerbatim(t *testing.T) {
	doc := Convert("```\n**not bold**\n- not a list\n```")
	cb := doc.Content[0]
	if cb.Type != "codeBlock" {
		t.Fatalf("expected codeBlock, got %s", cb.Type)
	}
	if got := cb.Content[0].Text; got != "**not bold**\n- not a list" {
		t.Errorf("code text must stay verbatim, got %q", got)
	}
}

func TestConvert_HeadingHeuristic(t *testing.T) {
	doc := Convert("**Overview**")
	if len(doc.Content) != 1 || doc.Content[0].Type != "heading" {
		t.Fatalf("expected a heading, got %+v", doc.Content)
	}
	h := doc.Content[0]
	if h.Attrs == nil || h.Attrs.Level != 3 {
		t.Errorf("expected level 3, got %+v", h.Attrs)
	}
	if got := h.Content[0].Text; got != "Overview" {
		t.Errorf("expected heading text %q, got %q", "Overview", got)
	}
}

func TestConvert_BoldLabelIsNotHeading(t *testing.T) {
	doc := Convert("**Goal:**")
	if doc.Content[0].Type != "paragraph" {
		t.Errorf("label line must stay a paragraph, got %s", doc.Content[0].Type)
	}
	// The label renders as one bold span.
	span := doc.Content[0].Content[0]
	if span.Text != "Goal:" || len(span.Marks) != 1 || span.Marks[0].Type != adf.MarkStrong {
		t.Errorf("expected bold %q span, got %+v", "Goal:", span)
	}
}

func TestConvert_BulletListGrouping(t *testing.T) {
	doc := Convert("- a\n- b\n\nnot a list")
	if len(doc.Content) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Content))
	}
	list := doc.Content[0]
	if list.Type != "bulletList" {
		t.Fatalf("expected bulletList, got %s", list.Type)
	}
	if len(list.Content) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Content))
	}
	for i, want := range []string{"a", "b"} {
		item := list.Content[i]
		if item.Type != "listItem" || item.Content[0].Type != "paragraph" {
			t.Fatalf("item %d: expected listItem>paragraph, got %+v", i, item)
		}
		if got := item.Content[0].Content[0].Text; got != want {
			t.Errorf("item %d: expected %q, got %q", i, want, got)
		}
	}
	if doc.Content[1].Type != "paragraph" {
		t.Errorf("trailing line must be a paragraph, got %s", doc.Content[1].Type)
	}
}

func TestConvert_MixedBulletMarkers(t *testing.T) {
	doc := Convert("* one\n- two")
	if len(doc.Content) != 1 || doc.Content[0].Type != "bulletList" {
		t.Fatalf("mixed markers must group into one list, got %+v", doc.Content)
	}
	if len(doc.Content[0].Content) != 2 {
		t.Errorf("expected 2 items, got %d", len(doc.Content[0].Content))
	}
}

func TestConvert_OrderedListDropsNumbering(t *testing.T) {
	doc := Convert("1. first\n2. second\n10. tenth")
	if len(doc.Content) != 1 || doc.Content[0].Type != "orderedList" {
		t.Fatalf("expected one orderedList, got %+v", doc.Content)
	}
	items := doc.Content[0].Content
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"first", "second", "tenth"} {
		if got := items[i].Content[0].Content[0].Text; got != want {
			t.Errorf("item %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestConvert_ListDoesNotBleedIntoOtherKinds(t *testing.T) {
	doc := Convert("- bullet\n1. ordered")
	if len(doc.Content) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != "bulletList" || doc.Content[1].Type != "orderedList" {
		t.Errorf("expected bulletList then orderedList, got %s then %s",
			doc.Content[0].Type, doc.Content[1].Type)
	}
}

func TestConvert_TotalOverHostileInput(t *testing.T) {
	inputs := []string{
		"*",
		"`",
		"**",
		"```",
		"``` \n",
		"***middle***",
		"1.no space",
		"- ",
		"\x00weird\x00",
		"**unclosed",
	}
	for _, input := range inputs {
		doc := Convert(input)
		if len(doc.Content) == 0 {
			t.Errorf("input %q: document must never be empty", input)
		}
	}
}

func TestConvert_Deterministic(t *testing.T) {
	input := "**Plan**\n\n- step `one`\n- step *two*\n\n```go\nreturn nil\n```"
	a := Convert(input)
	b := Convert(input)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("conversion must be deterministic:\n%+v\n%+v", a, b)
	}
}
