package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ReservedName always resolves to the built-in template, even when a stored
// entry carries the same name.
const ReservedName = "default"

// Placeholder is the single substitution marker every template must contain.
const Placeholder = "{{.GitData}}"

// DefaultTemplate is the built-in prompt applied when no usable custom
// template is configured.
const DefaultTemplate = `I need you to summarize the following git repository changes in clear,
human-readable language. Focus on the high-level impact of the changes
rather than listing every file. Group related changes when possible,
and identify the key themes or purposes behind the commits.

Here are the git changes to summarize:

{{.GitData}}

Provide a concise but informative summary, highlighting:
1. Main purpose/theme of these changes
2. Key components or areas affected
3. Any notable technical details worth mentioning

Format your response as Markdown with appropriate headings.`

// ErrTemplate reports a resolved template without the substitution marker.
// This is a configuration error, not something to paper over silently.
var ErrTemplate = errors.New("template is missing the {{.GitData}} placeholder")

// Source supplies stored templates by name.
type Source interface {
	Template(name string) (string, bool)
}

// Renderer resolves template names against a Source and substitutes history
// extracts into the resolved text.
type Renderer struct {
	source Source
}

func NewRenderer(source Source) Renderer {
	return Renderer{source: source}
}

// Resolve maps a template name to its text. The reserved name and names with
// no stored entry both yield the built-in template.
func (r Renderer) Resolve(name string) string {
	if name == ReservedName || r.source == nil {
		return DefaultTemplate
	}
	if tpl, ok := r.source.Template(name); ok {
		return tpl
	}
	return DefaultTemplate
}

// Render substitutes gitData for the placeholder in the named template.
func (r Renderer) Render(name, gitData string) (string, error) {
	tpl := r.Resolve(name)
	if !strings.Contains(tpl, Placeholder) {
		return "", fmt.Errorf("template %q: %w", name, ErrTemplate)
	}
	return strings.ReplaceAll(tpl, Placeholder, gitData), nil
}
