package summarize

import (
	"context"
	"fmt"

	"github.com/gitsumm/gitsumm/internal/ledger"
	"github.com/gitsumm/gitsumm/internal/llm"
	"github.com/gitsumm/gitsumm/internal/logging"
	"github.com/gitsumm/gitsumm/internal/prompt"
	"github.com/gitsumm/gitsumm/internal/settings"
)

// Operation names recorded in the ledger and surfaced to API clients.
const (
	OpRecent      = "recent"
	OpCommit      = "commit"
	OpRange       = "range"
	OpCompare     = "compare"
	OpPullRequest = "pull-request"
)

// HistorySource supplies the plain-text history extracts fed to a model.
type HistorySource interface {
	RecentLog(count int, branch string) (string, error)
	CommitDetail(hash string) (string, error)
	RangeLog(start, end, branch string) (string, error)
	BranchDiff(base, compare string) (string, error)
}

// PullRequestSource supplies the extract for one pull request.
type PullRequestSource func(ctx context.Context, number int) (string, error)

// Options carries per-invocation overrides. Zero fields fall back to the
// stored settings.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	Template string
}

// Result is one completed summary run.
type Result struct {
	Operation string `json:"operation"`
	Subject   string `json:"subject"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Summary   string `json:"summary"`
}

// Service binds the settings, history sources, prompt renderer and model
// clients into the summary operations. Failures past client construction
// become the summary text itself rather than errors, so one bad call never
// takes the process down.
type Service struct {
	cfg          Config
	settings     *settings.Service
	history      HistorySource
	ledger       *ledger.Store
	pullRequests PullRequestSource
	log          logging.Logger
	newClient    func(name string, cfg llm.Config) (llm.Provider, error)
}

func NewService(cfg Config, sets *settings.Service, history HistorySource, store *ledger.Store, log logging.Logger, opts ...func(*Service)) *Service {
	s := &Service{
		cfg:       cfg,
		settings:  sets,
		history:   history,
		ledger:    store,
		log:       log.WithName("summarize"),
		newClient: llm.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPullRequestSource wires the pull-request extract source.
func WithPullRequestSource(source PullRequestSource) func(*Service) {
	return func(s *Service) { s.pullRequests = source }
}

// WithClientFactory replaces the model client constructor.
func WithClientFactory(factory func(name string, cfg llm.Config) (llm.Provider, error)) func(*Service) {
	return func(s *Service) { s.newClient = factory }
}

// RecentCommits summarizes the count most recent commits, optionally scoped
// to a branch. A non-positive count falls back to the stored default.
func (s *Service) RecentCommits(ctx context.Context, count int, branch string, opts Options) (Result, error) {
	if count <= 0 {
		count = s.settings.CommitCount()
	}
	subject := fmt.Sprintf("last %d commits", count)
	if branch != "" {
		subject += " on " + branch
	}
	return s.run(ctx, opts, OpRecent, subject, func() (string, error) {
		return s.history.RecentLog(count, branch)
	})
}

// Commit summarizes a single commit.
func (s *Service) Commit(ctx context.Context, hash string, opts Options) (Result, error) {
	return s.run(ctx, opts, OpCommit, hash, func() (string, error) {
		return s.history.CommitDetail(hash)
	})
}

// CommitRange summarizes the commits between two calendar dates, both
// inclusive.
func (s *Service) CommitRange(ctx context.Context, start, end, branch string, opts Options) (Result, error) {
	subject := start + ".." + end
	if branch != "" {
		subject += " on " + branch
	}
	return s.run(ctx, opts, OpRange, subject, func() (string, error) {
		return s.history.RangeLog(start, end, branch)
	})
}

// CompareBranches summarizes what compare carries beyond base.
func (s *Service) CompareBranches(ctx context.Context, base, compare string, opts Options) (Result, error) {
	return s.run(ctx, opts, OpCompare, base+"..."+compare, func() (string, error) {
		return s.history.BranchDiff(base, compare)
	})
}

// PullRequest summarizes one pull request of the repository's origin remote.
func (s *Service) PullRequest(ctx context.Context, number int, opts Options) (Result, error) {
	if s.pullRequests == nil {
		return Result{}, fmt.Errorf("pull request source is not configured")
	}
	return s.run(ctx, opts, OpPullRequest, fmt.Sprintf("#%d", number), func() (string, error) {
		return s.pullRequests(ctx, number)
	})
}

// run is the single boundary turning extract, render and generate failures
// into summary text. Client construction failures still surface as errors:
// a missing credential or unknown provider is the caller's to fix.
func (s *Service) run(ctx context.Context, opts Options, op, subject string, extract func() (string, error)) (Result, error) {
	client, provider, model, err := s.client(opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Operation: op, Subject: subject, Provider: provider, Model: model}

	text, err := extract()
	if err != nil {
		res.Summary = errorSummary(err)
		return res, nil
	}

	bounded := prompt.BoundHistory(text, s.cfg.TokenBudget, s.log)
	rendered, err := prompt.NewRenderer(s.settings).Render(s.templateName(opts), bounded)
	if err != nil {
		res.Summary = errorSummary(err)
		return res, nil
	}

	s.log.Debug("requesting summary", "operation", op, "provider", provider, "model", model)
	summary, err := client.Generate(ctx, rendered)
	if err != nil {
		res.Summary = errorSummary(err)
		return res, nil
	}
	res.Summary = summary

	s.record(ctx, res)
	return res, nil
}

func (s *Service) client(opts Options) (llm.Provider, string, string, error) {
	name := opts.Provider
	if name == "" {
		name = s.settings.ActiveProvider()
	}
	canon := llm.Canonical(name)
	if !llm.Known(canon) {
		return nil, "", "", fmt.Errorf("%w: %s", llm.ErrUnknownProvider, name)
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = s.settings.APIKey(canon)
	}
	model := opts.Model
	if model == "" {
		model = s.settings.Model(canon)
	}
	if model == "" {
		model = llm.DefaultModel(canon)
	}

	cfg := llm.Config{APIKey: apiKey, Model: model}
	if canon == "ollama" {
		cfg.BaseURL = s.cfg.OllamaURL
	}
	client, err := s.newClient(canon, cfg)
	if err != nil {
		return nil, "", "", err
	}
	return client, canon, model, nil
}

func (s *Service) templateName(opts Options) string {
	if opts.Template != "" {
		return opts.Template
	}
	return s.settings.ActiveTemplate()
}

func (s *Service) record(ctx context.Context, res Result) {
	if s.ledger == nil {
		return
	}
	entry := &ledger.Entry{
		Operation: res.Operation,
		Subject:   res.Subject,
		Provider:  res.Provider,
		Model:     res.Model,
		Summary:   res.Summary,
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		s.log.Error(err, "recording summary", "operation", res.Operation)
	}
}

func errorSummary(err error) string {
	return "Error generating summary: " + err.Error()
}
