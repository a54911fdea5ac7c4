package mcp

import (
	"context"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gitsumm/gitsumm/internal/ledger"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
	Ledger  *ledger.Store
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"gitsumm",
		"0.5.0",
		server.WithToolCapabilities(true),
	)

	// Register tools with their proper schemas using mcp-go builder pattern
	toolDefinitions := map[string]mcp.Tool{
		"summarize_recent": mcp.NewTool("summarize_recent",
			mcp.WithDescription("Summarize the most recent commits of the repository in plain language, using the configured LLM provider."),
			mcp.WithNumber("count",
				mcp.Description("Number of commits to summarize (default: the configured commit count)"),
			),
			mcp.WithString("branch",
				mcp.Description("Optional: branch to read commits from (default: the checked-out branch)"),
			),
		),
		"summarize_commit": mcp.NewTool("summarize_commit",
			mcp.WithDescription("Summarize a single commit, including a bounded preview of its file changes."),
			mcp.WithString("hash",
				mcp.Required(),
				mcp.Description("Commit hash, full or abbreviated (e.g. 'abc1234')"),
			),
		),
		"summarize_range": mcp.NewTool("summarize_range",
			mcp.WithDescription("Summarize the commits made between two calendar dates, both inclusive."),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start date in YYYY-MM-DD form"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("End date in YYYY-MM-DD form"),
			),
			mcp.WithString("branch",
				mcp.Description("Optional: branch to read commits from"),
			),
		),
		"compare_branches": mcp.NewTool("compare_branches",
			mcp.WithDescription("Summarize the commits and file changes a branch carries beyond a base branch."),
			mcp.WithString("base",
				mcp.Required(),
				mcp.Description("Base branch name (e.g. 'main')"),
			),
			mcp.WithString("compare",
				mcp.Required(),
				mcp.Description("Branch to compare against the base"),
			),
		),
	}

	for name, adapter := range cfg.ToolAdapters {
		tool := toolDefinitions[name]
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		Ledger:  cfg.Ledger,
	}
}

// ServeStdio blocks serving the MCP protocol over stdin and stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCP)
}

func (s *Server) Close() {
	if s.Ledger != nil {
		if err := s.Ledger.Close(); err != nil {
			log.Printf("error closing summary ledger: %v", err)
		}
	}
}
