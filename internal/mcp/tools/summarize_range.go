package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// SummarizeRangeHandler handles the summarize_range tool requests
type SummarizeRangeHandler struct {
	Service Summarizer
}

func (h *SummarizeRangeHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	start, _ := args["start"].(string)
	end, _ := args["end"].(string)
	if start == "" || end == "" {
		return mcp.NewToolResultError("start and end arguments are required"), nil
	}
	branch, _ := args["branch"].(string)

	res, err := h.Service.CommitRange(ctx, start, end, branch, summarize.Options{})
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(res.Summary), nil
}
