package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// SummarizeCommitHandler handles the summarize_commit tool requests
type SummarizeCommitHandler struct {
	Service Summarizer
}

func (h *SummarizeCommitHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	hash, _ := args["hash"].(string)
	if hash == "" {
		return mcp.NewToolResultError("hash argument is required"), nil
	}

	res, err := h.Service.Commit(ctx, hash, summarize.Options{})
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(res.Summary), nil
}
