package tools

import (
	"context"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// Summarizer is the subset of the summary service the tool handlers call.
// Handlers always pass empty Options so the stored settings decide the
// provider, model and template.
type Summarizer interface {
	RecentCommits(ctx context.Context, count int, branch string, opts summarize.Options) (summarize.Result, error)
	Commit(ctx context.Context, hash string, opts summarize.Options) (summarize.Result, error)
	CommitRange(ctx context.Context, start, end, branch string, opts summarize.Options) (summarize.Result, error)
	CompareBranches(ctx context.Context, base, compare string, opts summarize.Options) (summarize.Result, error)
}
