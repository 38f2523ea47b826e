package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	tpls := Defaults()
	if len(tpls) != 2 {
		t.Fatalf("expected 2 default templates, got %d", len(tpls))
	}
	for _, tpl := range tpls {
		if tpl.Name == "" || tpl.Summary == "" || tpl.Prompt == "" {
			t.Errorf("default template %+v has empty fields", tpl)
		}
	}
}

func TestDefaultsReturnsCopy(t *testing.T) {
	a := Defaults()
	a[0].Summary = "mutated"
	b := Defaults()
	if b[0].Summary == "mutated" {
		t.Error("Defaults must not share backing storage with callers")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	content := `templates:
  - name: design
    summary: Design notes
    prompt: Draft design notes for the issue below.
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tpls, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tpls) != 1 {
		t.Fatalf("expected 1 template, got %d", len(tpls))
	}
	if tpls[0].Name != "design" || tpls[0].Summary != "Design notes" {
		t.Errorf("unexpected template %+v", tpls[0])
	}
}

func TestLoadFileEmptyPathUsesDefaults(t *testing.T) {
	tpls, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tpls) != len(Defaults()) {
		t.Errorf("expected defaults, got %d templates", len(tpls))
	}
}

func TestLoadFileRejectsIncompleteTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	content := `templates:
  - name: broken
    summary: ""
    prompt: something
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error for a template without a summary")
	}
}

func TestBuildPrompt(t *testing.T) {
	tpl := Template{Name: "implementation", Summary: "Implementation plan", Prompt: "Draft a plan."}
	prompt := BuildPrompt(tpl, "PROJ-1", "Add login page", "Users need to log in.")

	for _, want := range []string{"Draft a plan.", "Issue PROJ-1: Add login page", "Users need to log in."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptEmptyDescription(t *testing.T) {
	tpl := Template{Name: "x", Summary: "X", Prompt: "Do X."}
	prompt := BuildPrompt(tpl, "PROJ-2", "Summary only", "   ")
	if !strings.Contains(prompt, "(no description provided)") {
		t.Errorf("expected placeholder for empty description:\n%s", prompt)
	}
}
