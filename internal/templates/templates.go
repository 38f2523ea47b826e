// Package templates defines the subtask templates the generator fills.
// Each template produces one subtask under the triggering issue.
package templates

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template describes one subtask to generate: the summary it gets in
// the tracker and the prompt the model fills with issue context.
type Template struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
	Prompt  string `yaml:"prompt"`
}

const promptPreamble = `You are drafting the description of a subtask for a software issue tracker.
Write concise Markdown using only this syntax: bold section titles on their own
line (like **Overview**), bold field labels (like **Goal:**), bullet lists with
"-", numbered lists, inline code in backticks, and fenced code blocks. Do not
nest styles. Respond with the description only, no preamble.`

// defaults cover the two subtasks every groomed issue receives.
var defaults = []Template{
	{
		Name:    "implementation",
		Summary: "Implementation plan",
		Prompt: `Draft an implementation plan for the issue below. Start with a short
**Overview** section, then list the concrete steps as a numbered list, and
finish with a **Risks** section as a bullet list.`,
	},
	{
		Name:    "testing",
		Summary: "Test plan",
		Prompt: `Draft a test plan for the issue below. Start with a **Scope** section,
then a bullet list of the cases to cover, including edge cases. Mention any
fixtures or tooling as inline code.`,
	},
}

// Defaults returns a copy of the built-in templates.
func Defaults() []Template {
	out := make([]Template, len(defaults))
	copy(out, defaults)
	return out
}

// LoadFile reads templates from a YAML file. An empty path selects the
// built-in defaults.
func LoadFile(path string) ([]Template, error) {
	if path == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("templates file %s defines no templates", path)
	}
	for i, t := range doc.Templates {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("template %d: name is required", i)
		}
		if strings.TrimSpace(t.Summary) == "" {
			return nil, fmt.Errorf("template %q: summary is required", t.Name)
		}
		if strings.TrimSpace(t.Prompt) == "" {
			return nil, fmt.Errorf("template %q: prompt is required", t.Name)
		}
	}
	return doc.Templates, nil
}

// BuildPrompt assembles the full prompt for one template: shared
// preamble, template instructions, then the issue context.
func BuildPrompt(tpl Template, issueKey, summary, description string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(tpl.Prompt))
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Issue %s: %s\n", issueKey, summary))
	sb.WriteString("---\n")
	if strings.TrimSpace(description) == "" {
		sb.WriteString("(no description provided)")
	} else {
		sb.WriteString(description)
	}
	return sb.String()
}
