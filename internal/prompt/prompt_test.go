package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/gitsumm/gitsumm/internal/logging"
)

type mapSource map[string]string

func (m mapSource) Template(name string) (string, bool) {
	tpl, ok := m[name]
	return tpl, ok
}

func TestRenderReservedNameIgnoresStoredEntry(t *testing.T) {
	r := NewRenderer(mapSource{"default": "hijacked {{.GitData}}"})
	out, err := r.Render("default", "GITDATA")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(out, "hijacked") {
		t.Fatalf("stored entry shadowed the built-in template")
	}
	if !strings.Contains(out, "GITDATA") || !strings.Contains(out, "human-readable language") {
		t.Fatalf("unexpected render output: %q", out)
	}
}

func TestRenderUnknownNameFallsBack(t *testing.T) {
	r := NewRenderer(mapSource{})
	fromUnknown, err := r.Render("nonexistent", "GITDATA")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	fromDefault, err := r.Render("default", "GITDATA")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if fromUnknown != fromDefault {
		t.Fatalf("unknown name did not fall back to the built-in template")
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	r := NewRenderer(mapSource{"short": "Summarize briefly: {{.GitData}}"})
	out, err := r.Render("short", "two commits")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "Summarize briefly: two commits" {
		t.Fatalf("unexpected render output: %q", out)
	}
}

func TestRenderMissingPlaceholder(t *testing.T) {
	r := NewRenderer(mapSource{"broken": "no marker here"})
	if _, err := r.Render("broken", "data"); !errors.Is(err, ErrTemplate) {
		t.Fatalf("expected ErrTemplate, got %v", err)
	}
}

func TestBoundHistoryKeepsSmallExtracts(t *testing.T) {
	oldEstimate := estimateTokensFunc
	estimateTokensFunc = func(text string) int { return len(text) / 10 }
	defer func() { estimateTokensFunc = oldEstimate }()

	log := logging.New(logr.Discard())
	text := "small extract"
	if got := BoundHistory(text, 100, log); got != text {
		t.Fatalf("small extract was modified: %q", got)
	}
}

func TestBoundHistoryTruncatesLargeExtracts(t *testing.T) {
	oldEstimate := estimateTokensFunc
	estimateTokensFunc = func(text string) int { return len(text) / 10 }
	defer func() { estimateTokensFunc = oldEstimate }()

	log := logging.New(logr.Discard())
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("commit line with some descriptive text\n")
	}
	text := b.String()

	got := BoundHistory(text, 50, log)
	if len(got) >= len(text) {
		t.Fatalf("extract was not truncated")
	}
	if !strings.Contains(got, truncationNotice) {
		t.Fatalf("truncated extract is missing the notice")
	}
}
