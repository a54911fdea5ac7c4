package mcp

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gitsumm/gitsumm/internal/config"
	"github.com/gitsumm/gitsumm/internal/gitlog"
	"github.com/gitsumm/gitsumm/internal/ledger"
	"github.com/gitsumm/gitsumm/internal/logging"
	"github.com/gitsumm/gitsumm/internal/mcp/tools"
	"github.com/gitsumm/gitsumm/internal/settings"
	"github.com/gitsumm/gitsumm/internal/summarize"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Ledger       *ledger.Store
}

// DefaultConfig wires the summary service against the repository at
// repoPath and exposes it through the standard tool set.
func DefaultConfig(repoPath string) Config {
	reader, err := gitlog.Open(repoPath)
	if err != nil {
		log.Fatalf("failed to open repository: %v", err)
	}

	store, err := ledger.Open(context.Background(), ledger.Config{
		Path:  config.HistoryDBPath(),
		Max:   config.HistoryMax(),
		Debug: config.DBDebug(),
	})
	if err != nil {
		log.Fatalf("failed to open summary ledger: %v", err)
	}

	baseLogger := logging.New(logging.DefaultLogger())
	svc := summarize.NewService(
		summarize.LoadConfig(),
		settings.NewFileService(baseLogger),
		reader,
		store,
		baseLogger,
	)

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"summarize_recent": &tools.SummarizeRecentHandler{Service: svc},
			"summarize_commit": &tools.SummarizeCommitHandler{Service: svc},
			"summarize_range":  &tools.SummarizeRangeHandler{Service: svc},
			"compare_branches": &tools.CompareBranchesHandler{Service: svc},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath("/mcp/jsonrpc"),
			server.WithStateLess(true),
		},
		Ledger: store,
	}
}
