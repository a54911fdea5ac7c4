package settings

import (
	"fmt"

	"github.com/gitsumm/gitsumm/internal/config"
	"github.com/gitsumm/gitsumm/internal/llm"
	"github.com/gitsumm/gitsumm/internal/logging"
	"github.com/gitsumm/gitsumm/internal/prompt"
)

// Service wraps a Store with typed accessors. Mutations load the current
// document, apply the change and save the result, so concurrent processes
// see each other's writes on their next access. Failed saves are logged and
// the change still applies to the returned values of this process.
type Service struct {
	store Store
	log   logging.Logger
}

func NewService(store Store, log logging.Logger) *Service {
	return &Service{store: store, log: log.WithName("settings")}
}

// NewFileService stores settings at the standard config path.
func NewFileService(log logging.Logger) *Service {
	return NewService(FileStore{Path: config.SettingsPath()}, log)
}

// Load returns the current document with every missing field backfilled.
func (s *Service) Load() Document {
	doc := s.store.Load()
	doc.backfill()
	return doc
}

func (s *Service) persist(doc Document) {
	if err := s.store.Save(doc); err != nil {
		s.log.Error(err, "saving settings")
	}
}

// ActiveProvider returns the provider used when no override is given.
func (s *Service) ActiveProvider() string {
	return s.Load().ActiveProvider
}

func (s *Service) SetActiveProvider(name string) error {
	canon := llm.Canonical(name)
	if !llm.Known(canon) {
		return fmt.Errorf("%w: %s", llm.ErrUnknownProvider, name)
	}
	doc := s.Load()
	doc.ActiveProvider = canon
	s.persist(doc)
	return nil
}

// APIKey returns the stored credential for provider, falling back to the
// provider's conventional environment variable.
func (s *Service) APIKey(provider string) string {
	canon := llm.Canonical(provider)
	if key := s.Load().Credentials[canon]; key != "" {
		return key
	}
	return config.ProviderAPIKey(canon)
}

func (s *Service) SetAPIKey(provider, key string) {
	doc := s.Load()
	doc.Credentials[llm.Canonical(provider)] = key
	s.persist(doc)
}

// Model returns the model configured for provider.
func (s *Service) Model(provider string) string {
	return s.Load().ModelChoices[llm.Canonical(provider)]
}

func (s *Service) SetModel(provider, model string) {
	doc := s.Load()
	doc.ModelChoices[llm.Canonical(provider)] = model
	s.persist(doc)
}

// Template looks up a stored prompt template by name. It satisfies
// prompt.Source.
func (s *Service) Template(name string) (string, bool) {
	text, ok := s.Load().Templates[name]
	return text, ok
}

// Templates returns every stored template keyed by name, the reserved entry
// included.
func (s *Service) Templates() map[string]string {
	return s.Load().Templates
}

func (s *Service) SetTemplate(name, text string) error {
	if name == prompt.ReservedName {
		return fmt.Errorf("template name '%s' is reserved", name)
	}
	doc := s.Load()
	doc.Templates[name] = text
	s.persist(doc)
	return nil
}

// DeleteTemplate removes a stored template. Deleting the active template
// reactivates the built-in one.
func (s *Service) DeleteTemplate(name string) error {
	if name == prompt.ReservedName {
		return fmt.Errorf("template name '%s' is reserved", name)
	}
	doc := s.Load()
	if _, ok := doc.Templates[name]; !ok {
		return fmt.Errorf("template '%s' not found", name)
	}
	delete(doc.Templates, name)
	if doc.Defaults.ActiveTemplate == name {
		doc.Defaults.ActiveTemplate = DefaultTemplateName
	}
	s.persist(doc)
	return nil
}

// ActiveTemplate returns the template name used when no override is given.
func (s *Service) ActiveTemplate() string {
	return s.Load().Defaults.ActiveTemplate
}

func (s *Service) SetActiveTemplate(name string) error {
	doc := s.Load()
	if _, ok := doc.Templates[name]; !ok {
		return fmt.Errorf("template '%s' not found", name)
	}
	doc.Defaults.ActiveTemplate = name
	s.persist(doc)
	return nil
}

func (s *Service) CommitCount() int      { return s.Load().Defaults.CommitCount }
func (s *Service) CompareBranch() string { return s.Load().Defaults.CompareBranch }
func (s *Service) OutputFormat() string  { return s.Load().Defaults.OutputFormat }

func (s *Service) SetCommitCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("commit count must be a positive integer, got %d", n)
	}
	doc := s.Load()
	doc.Defaults.CommitCount = n
	s.persist(doc)
	return nil
}

func (s *Service) SetCompareBranch(branch string) error {
	if branch == "" {
		return fmt.Errorf("compare branch must not be empty")
	}
	doc := s.Load()
	doc.Defaults.CompareBranch = branch
	s.persist(doc)
	return nil
}

func (s *Service) SetOutputFormat(format string) error {
	if !ValidOutputFormat(format) {
		return fmt.Errorf("output format must be one of text, json, markdown, got '%s'", format)
	}
	doc := s.Load()
	doc.Defaults.OutputFormat = format
	s.persist(doc)
	return nil
}

// ValidOutputFormat reports whether format names a supported rendering.
func ValidOutputFormat(format string) bool {
	switch format {
	case "text", "json", "markdown":
		return true
	}
	return false
}
