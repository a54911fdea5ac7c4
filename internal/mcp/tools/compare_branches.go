package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// CompareBranchesHandler handles the compare_branches tool requests
type CompareBranchesHandler struct {
	Service Summarizer
}

func (h *CompareBranchesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	base, _ := args["base"].(string)
	compare, _ := args["compare"].(string)
	if base == "" || compare == "" {
		return mcp.NewToolResultError("base and compare arguments are required"), nil
	}

	res, err := h.Service.CompareBranches(ctx, base, compare, summarize.Options{})
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(res.Summary), nil
}
