package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

type fakeSummarizer struct {
	result summarize.Result
	err    error

	op      string
	count   int
	branch  string
	hash    string
	start   string
	end     string
	base    string
	compare string
}

func (f *fakeSummarizer) RecentCommits(_ context.Context, count int, branch string, _ summarize.Options) (summarize.Result, error) {
	f.op, f.count, f.branch = "recent", count, branch
	return f.result, f.err
}

func (f *fakeSummarizer) Commit(_ context.Context, hash string, _ summarize.Options) (summarize.Result, error) {
	f.op, f.hash = "commit", hash
	return f.result, f.err
}

func (f *fakeSummarizer) CommitRange(_ context.Context, start, end, branch string, _ summarize.Options) (summarize.Result, error) {
	f.op, f.start, f.end, f.branch = "range", start, end, branch
	return f.result, f.err
}

func (f *fakeSummarizer) CompareBranches(_ context.Context, base, compare string, _ summarize.Options) (summarize.Result, error) {
	f.op, f.base, f.compare = "compare", base, compare
	return f.result, f.err
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected a single content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestSummarizeRecentPassesArguments(t *testing.T) {
	svc := &fakeSummarizer{result: summarize.Result{Summary: "three commits"}}
	h := &SummarizeRecentHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{
		"count":  float64(3),
		"branch": "dev",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.count != 3 || svc.branch != "dev" {
		t.Fatalf("expected count=3 branch=dev, got count=%d branch=%q", svc.count, svc.branch)
	}
	if got := resultText(t, res); got != "three commits" {
		t.Fatalf("unexpected result text: %q", got)
	}
}

func TestSummarizeRecentOmittedCountFallsThrough(t *testing.T) {
	svc := &fakeSummarizer{result: summarize.Result{Summary: "ok"}}
	h := &SummarizeRecentHandler{Service: svc}

	if _, err := h.ToolAdapter(context.Background(), toolRequest(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.count != 0 {
		t.Fatalf("expected zero count so the stored default applies, got %d", svc.count)
	}
}

func TestSummarizeCommitRequiresHash(t *testing.T) {
	svc := &fakeSummarizer{}
	h := &SummarizeCommitHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result for a missing hash")
	}
	if got := resultText(t, res); !strings.Contains(got, "hash") {
		t.Fatalf("error text should name the missing argument, got %q", got)
	}
	if svc.op != "" {
		t.Fatalf("service should not be called, got op %q", svc.op)
	}
}

func TestSummarizeCommitPassesHash(t *testing.T) {
	svc := &fakeSummarizer{result: summarize.Result{Summary: "one commit"}}
	h := &SummarizeCommitHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{"hash": "abc1234"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.hash != "abc1234" {
		t.Fatalf("expected hash abc1234, got %q", svc.hash)
	}
	if got := resultText(t, res); got != "one commit" {
		t.Fatalf("unexpected result text: %q", got)
	}
}

func TestSummarizeRangeRequiresBothDates(t *testing.T) {
	svc := &fakeSummarizer{}
	h := &SummarizeRangeHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{"start": "2024-01-01"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result when end is missing")
	}
}

func TestSummarizeRangePassesArguments(t *testing.T) {
	svc := &fakeSummarizer{result: summarize.Result{Summary: "a week of work"}}
	h := &SummarizeRangeHandler{Service: svc}

	_, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{
		"start":  "2024-01-01",
		"end":    "2024-01-07",
		"branch": "release",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.start != "2024-01-01" || svc.end != "2024-01-07" || svc.branch != "release" {
		t.Fatalf("arguments not forwarded: start=%q end=%q branch=%q", svc.start, svc.end, svc.branch)
	}
}

func TestCompareBranchesRequiresBothNames(t *testing.T) {
	svc := &fakeSummarizer{}
	h := &CompareBranchesHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{"base": "main"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result when compare is missing")
	}
}

func TestCompareBranchesPassesArguments(t *testing.T) {
	svc := &fakeSummarizer{result: summarize.Result{Summary: "feature adds a parser"}}
	h := &CompareBranchesHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), toolRequest(map[string]any{
		"base":    "main",
		"compare": "feature",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.base != "main" || svc.compare != "feature" {
		t.Fatalf("arguments not forwarded: base=%q compare=%q", svc.base, svc.compare)
	}
	if got := resultText(t, res); got != "feature adds a parser" {
		t.Fatalf("unexpected result text: %q", got)
	}
}

func TestServiceErrorsPropagate(t *testing.T) {
	boom := errors.New("provider unreachable")
	h := &SummarizeRecentHandler{Service: &fakeSummarizer{err: boom}}

	_, err := h.ToolAdapter(context.Background(), toolRequest(nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the service error back, got %v", err)
	}
}

func TestOptionalInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(5), 5},
		{float64(0), 0},
		{float64(-2), 0},
		{int(2), 2},
		{"seven", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := optionalInt(tc.in); got != tc.want {
			t.Fatalf("optionalInt(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
