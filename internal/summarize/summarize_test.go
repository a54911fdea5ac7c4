package summarize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/gitsumm/gitsumm/internal/ledger"
	"github.com/gitsumm/gitsumm/internal/llm"
	"github.com/gitsumm/gitsumm/internal/logging"
	"github.com/gitsumm/gitsumm/internal/prompt"
	"github.com/gitsumm/gitsumm/internal/settings"
)

type fakeHistory struct {
	out        string
	err        error
	lastOp     string
	lastCount  int
	lastBranch string
}

func (f *fakeHistory) RecentLog(count int, branch string) (string, error) {
	f.lastOp, f.lastCount, f.lastBranch = "recent", count, branch
	return f.out, f.err
}

func (f *fakeHistory) CommitDetail(hash string) (string, error) {
	f.lastOp = "commit"
	return f.out, f.err
}

func (f *fakeHistory) RangeLog(start, end, branch string) (string, error) {
	f.lastOp = "range"
	return f.out, f.err
}

func (f *fakeHistory) BranchDiff(base, compare string) (string, error) {
	f.lastOp = "compare"
	return f.out, f.err
}

type fakeClient struct {
	name    string
	reply   string
	err     error
	prompts []string
}

func (c *fakeClient) Name() string { return c.name }

func (c *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type factoryCapture struct {
	name string
	cfg  llm.Config
}

func newTestSettings() *settings.Service {
	return settings.NewService(&settings.MemoryStore{}, logging.New(logr.Discard()))
}

func newTestService(sets *settings.Service, history HistorySource, client llm.Provider, capture *factoryCapture, cfg Config, extra ...func(*Service)) *Service {
	factory := func(name string, c llm.Config) (llm.Provider, error) {
		if capture != nil {
			capture.name, capture.cfg = name, c
		}
		return client, nil
	}
	opts := append([]func(*Service){WithClientFactory(factory)}, extra...)
	return NewService(cfg, sets, history, nil, logging.New(logr.Discard()), opts...)
}

func TestOverridesBeatStoredSettings(t *testing.T) {
	sets := newTestSettings()
	sets.SetAPIKey("groq", "stored-key")

	client := &fakeClient{name: "openai", reply: "done"}
	capture := &factoryCapture{}
	svc := newTestService(sets, &fakeHistory{out: "log"}, client, capture, Config{})

	res, err := svc.RecentCommits(context.Background(), 3, "", Options{
		Provider: "openai",
		APIKey:   "flag-key",
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("recent commits: %v", err)
	}
	if capture.name != "openai" || capture.cfg.APIKey != "flag-key" || capture.cfg.Model != "gpt-4o-mini" {
		t.Fatalf("overrides not applied: name=%s cfg=%+v", capture.name, capture.cfg)
	}
	if res.Provider != "openai" || res.Model != "gpt-4o-mini" {
		t.Fatalf("result metadata = %s/%s", res.Provider, res.Model)
	}
}

func TestStoredSettingsFillOmittedOverrides(t *testing.T) {
	sets := newTestSettings()
	sets.SetAPIKey("groq", "stored-key")
	sets.SetModel("groq", "llama-3.3-70b-versatile")

	capture := &factoryCapture{}
	svc := newTestService(sets, &fakeHistory{out: "log"}, &fakeClient{name: "groq", reply: "done"}, capture, Config{})

	res, err := svc.RecentCommits(context.Background(), 3, "", Options{})
	if err != nil {
		t.Fatalf("recent commits: %v", err)
	}
	if capture.name != "groq" || capture.cfg.APIKey != "stored-key" || capture.cfg.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("stored settings not applied: name=%s cfg=%+v", capture.name, capture.cfg)
	}
	if res.Summary != "done" {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestUnknownProviderIsAnError(t *testing.T) {
	svc := newTestService(newTestSettings(), &fakeHistory{out: "log"}, &fakeClient{}, nil, Config{})

	_, err := svc.RecentCommits(context.Background(), 3, "", Options{Provider: "skynet"})
	if !errors.Is(err, llm.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestExtractFailureBecomesSummaryText(t *testing.T) {
	history := &fakeHistory{err: errors.New("branch 'ghost' not found")}
	client := &fakeClient{name: "groq", reply: "unused"}
	svc := newTestService(newTestSettings(), history, client, nil, Config{})

	res, err := svc.RecentCommits(context.Background(), 3, "ghost", Options{APIKey: "k"})
	if err != nil {
		t.Fatalf("extract failures must not surface as errors: %v", err)
	}
	if res.Summary != "Error generating summary: branch 'ghost' not found" {
		t.Fatalf("summary = %q", res.Summary)
	}
	if history.lastBranch != "ghost" {
		t.Fatalf("branch = %q, want ghost", history.lastBranch)
	}
	if len(client.prompts) != 0 {
		t.Fatalf("model was called despite a failed extract")
	}
}

func TestGenerateFailureBecomesSummaryText(t *testing.T) {
	history := &fakeHistory{out: "log"}
	client := &fakeClient{name: "groq", err: fmt.Errorf("%w: HTTP 500", llm.ErrModel)}
	svc := newTestService(newTestSettings(), history, client, nil, Config{})

	res, err := svc.Commit(context.Background(), "abc1234", Options{APIKey: "k"})
	if err != nil {
		t.Fatalf("generate failures must not surface as errors: %v", err)
	}
	if res.Summary != "Error generating summary: model request failed: HTTP 500" {
		t.Fatalf("summary = %q", res.Summary)
	}
	if history.lastOp != "commit" {
		t.Fatalf("operation = %q, want commit", history.lastOp)
	}
}

func TestPromptCarriesExtractThroughTemplate(t *testing.T) {
	history := &fakeHistory{out: "abc1234 Add feature"}
	client := &fakeClient{name: "groq", reply: "done"}
	svc := newTestService(newTestSettings(), history, client, nil, Config{})

	if _, err := svc.RecentCommits(context.Background(), 2, "", Options{APIKey: "k"}); err != nil {
		t.Fatalf("recent commits: %v", err)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(client.prompts))
	}
	sent := client.prompts[0]
	if !strings.Contains(sent, "abc1234 Add feature") {
		t.Fatalf("prompt is missing the history extract:\n%s", sent)
	}
	if !strings.Contains(sent, "summarize the following git repository changes") {
		t.Fatalf("prompt is missing the built-in template text:\n%s", sent)
	}
}

func TestActiveTemplateApplies(t *testing.T) {
	sets := newTestSettings()
	if err := sets.SetTemplate("brief", "Summarize: "+prompt.Placeholder); err != nil {
		t.Fatalf("set template: %v", err)
	}
	if err := sets.SetActiveTemplate("brief"); err != nil {
		t.Fatalf("activate template: %v", err)
	}

	client := &fakeClient{name: "groq", reply: "done"}
	svc := newTestService(sets, &fakeHistory{out: "EXTRACT"}, client, nil, Config{})

	if _, err := svc.Commit(context.Background(), "abc1234", Options{APIKey: "k"}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if client.prompts[0] != "Summarize: EXTRACT" {
		t.Fatalf("prompt = %q", client.prompts[0])
	}

	// The reserved name forces the built-in template past the active one.
	if _, err := svc.Commit(context.Background(), "abc1234", Options{APIKey: "k", Template: "default"}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !strings.Contains(client.prompts[1], "summarize the following git repository changes") {
		t.Fatalf("reserved template override not honored:\n%s", client.prompts[1])
	}
}

func TestRecentCountFallsBackToStoredDefault(t *testing.T) {
	sets := newTestSettings()
	if err := sets.SetCommitCount(7); err != nil {
		t.Fatalf("set commit count: %v", err)
	}

	history := &fakeHistory{out: "log"}
	svc := newTestService(sets, history, &fakeClient{name: "groq", reply: "done"}, nil, Config{})

	res, err := svc.RecentCommits(context.Background(), 0, "", Options{APIKey: "k"})
	if err != nil {
		t.Fatalf("recent commits: %v", err)
	}
	if history.lastCount != 7 {
		t.Fatalf("count = %d, want the stored default 7", history.lastCount)
	}
	if res.Subject != "last 7 commits" {
		t.Fatalf("subject = %q", res.Subject)
	}
}

func TestOllamaBaseURLComesFromConfig(t *testing.T) {
	capture := &factoryCapture{}
	svc := newTestService(newTestSettings(), &fakeHistory{out: "log"}, &fakeClient{name: "ollama", reply: "done"}, capture, Config{OllamaURL: "http://models.internal:11434"})

	if _, err := svc.RecentCommits(context.Background(), 1, "", Options{Provider: "local"}); err != nil {
		t.Fatalf("recent commits: %v", err)
	}
	if capture.name != "ollama" {
		t.Fatalf("provider = %q, want the canonical ollama", capture.name)
	}
	if capture.cfg.BaseURL != "http://models.internal:11434" {
		t.Fatalf("base URL = %q", capture.cfg.BaseURL)
	}
}

func TestSuccessfulRunsAreRecorded(t *testing.T) {
	store, err := ledger.Open(context.Background(), ledger.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer store.Close()

	history := &fakeHistory{out: "log"}
	client := &fakeClient{name: "groq", reply: "a fine summary"}
	factory := func(name string, c llm.Config) (llm.Provider, error) { return client, nil }
	svc := NewService(Config{}, newTestSettings(), history, store, logging.New(logr.Discard()), WithClientFactory(factory))

	if _, err := svc.RecentCommits(context.Background(), 2, "", Options{APIKey: "k"}); err != nil {
		t.Fatalf("recent commits: %v", err)
	}

	// A failed extract is not recorded.
	history.err = errors.New("boom")
	if _, err := svc.RecentCommits(context.Background(), 2, "", Options{APIKey: "k"}); err != nil {
		t.Fatalf("recent commits: %v", err)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(entries))
	}
	if entries[0].Operation != OpRecent || entries[0].Summary != "a fine summary" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestPullRequestOperation(t *testing.T) {
	client := &fakeClient{name: "groq", reply: "done"}
	source := func(ctx context.Context, number int) (string, error) {
		return fmt.Sprintf("Pull request #%d: Fix login flow", number), nil
	}
	svc := newTestService(newTestSettings(), &fakeHistory{}, client, nil, Config{}, WithPullRequestSource(source))

	res, err := svc.PullRequest(context.Background(), 42, Options{APIKey: "k"})
	if err != nil {
		t.Fatalf("pull request: %v", err)
	}
	if res.Subject != "#42" || res.Summary != "done" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(client.prompts[0], "Pull request #42") {
		t.Fatalf("prompt is missing the pull request extract:\n%s", client.prompts[0])
	}

	bare := newTestService(newTestSettings(), &fakeHistory{}, client, nil, Config{})
	if _, err := bare.PullRequest(context.Background(), 1, Options{}); err == nil {
		t.Fatalf("expected an error without a pull request source")
	}
}
