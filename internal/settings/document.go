package settings

import (
	"maps"

	"github.com/gitsumm/gitsumm/internal/llm"
	"github.com/gitsumm/gitsumm/internal/prompt"
)

// Built-in values applied whenever the settings document is missing a field.
const (
	DefaultProvider      = "groq"
	DefaultCommitCount   = 5
	DefaultCompareBranch = "main"
	DefaultOutputFormat  = "text"
	DefaultTemplateName  = prompt.ReservedName
)

// Document is the on-disk shape of the settings file. All maps are keyed by
// canonical provider or template name.
type Document struct {
	ActiveProvider string            `json:"active_provider"`
	Credentials    map[string]string `json:"credentials"`
	ModelChoices   map[string]string `json:"model_choices"`
	Templates      map[string]string `json:"templates"`
	Defaults       Defaults          `json:"defaults"`
}

// Defaults holds the values used when a command runs without the matching
// flag.
type Defaults struct {
	CommitCount    int    `json:"commit_count"`
	CompareBranch  string `json:"compare_branch"`
	OutputFormat   string `json:"output_format"`
	ActiveTemplate string `json:"active_template"`
}

// DefaultDocument returns a fully populated document carrying only built-in
// values.
func DefaultDocument() Document {
	var doc Document
	doc.backfill()
	return doc
}

// backfill fills every missing field in place. The reserved template entry is
// always reset to the built-in text so edits to it never stick.
func (d *Document) backfill() {
	if d.ActiveProvider == "" {
		d.ActiveProvider = DefaultProvider
	}
	if d.Credentials == nil {
		d.Credentials = map[string]string{}
	}
	if d.ModelChoices == nil {
		d.ModelChoices = map[string]string{}
	}
	for name, model := range llm.DefaultModels() {
		if _, ok := d.ModelChoices[name]; !ok {
			d.ModelChoices[name] = model
		}
	}
	if d.Templates == nil {
		d.Templates = map[string]string{}
	}
	d.Templates[prompt.ReservedName] = prompt.DefaultTemplate
	if d.Defaults.CommitCount <= 0 {
		d.Defaults.CommitCount = DefaultCommitCount
	}
	if d.Defaults.CompareBranch == "" {
		d.Defaults.CompareBranch = DefaultCompareBranch
	}
	if d.Defaults.OutputFormat == "" {
		d.Defaults.OutputFormat = DefaultOutputFormat
	}
	if d.Defaults.ActiveTemplate == "" {
		d.Defaults.ActiveTemplate = DefaultTemplateName
	}
}

func (d Document) clone() Document {
	d.Credentials = maps.Clone(d.Credentials)
	d.ModelChoices = maps.Clone(d.ModelChoices)
	d.Templates = maps.Clone(d.Templates)
	return d
}
