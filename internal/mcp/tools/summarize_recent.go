package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// SummarizeRecentHandler handles the summarize_recent tool requests
type SummarizeRecentHandler struct {
	Service Summarizer
}

func (h *SummarizeRecentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	count := optionalInt(args["count"])
	branch, _ := args["branch"].(string)

	res, err := h.Service.RecentCommits(ctx, count, branch, summarize.Options{})
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(res.Summary), nil
}
