package summarize

import (
	"github.com/gitsumm/gitsumm/internal/config"
)

// Config carries the process-wide knobs of the summarizer.
type Config struct {
	OllamaURL   string
	TokenBudget int // prompt budget applied to history extracts, 0 disables
}

// LoadConfig builds a Config from the ambient configuration.
func LoadConfig() Config {
	return Config{
		OllamaURL:   config.OllamaURL(),
		TokenBudget: config.PromptTokenBudget(),
	}
}
