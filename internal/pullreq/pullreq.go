package pullreq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	vcsurl "github.com/gitsight/go-vcsurl"
	git "github.com/go-git/go-git/v5"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// ErrNotFound reports a pull request number absent from the repository.
var ErrNotFound = errors.New("not found")

// patchPreviewLines bounds each file's patch in the rendered extract.
const patchPreviewLines = 10

// NewGitHubClient returns a GitHub API client, authenticated when token is
// non-empty.
func NewGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(&http.Client{Timeout: 30 * time.Second})
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = 30 * time.Second
	return github.NewClient(tc)
}

// Origin resolves the owner and repository name from repoPath's origin
// remote URL.
func Origin(repoPath string) (owner, name string, err error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("not a git repository (or any parent directories): %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("repository has no origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}
	info, err := vcsurl.Parse(urls[0])
	if err != nil {
		return "", "", fmt.Errorf("parse origin URL %q: %w", urls[0], err)
	}
	return info.Username, info.Name, nil
}

// Fetcher renders pull request extracts from the GitHub API.
type Fetcher struct {
	client *github.Client
	owner  string
	repo   string
}

func NewFetcher(client *github.Client, owner, repo string) *Fetcher {
	return &Fetcher{client: client, owner: owner, repo: repo}
}

// Extract renders one pull request with its metadata, description and
// bounded per-file patches.
func (f *Fetcher) Extract(ctx context.Context, number int) (string, error) {
	pr, resp, err := f.client.PullRequests.Get(ctx, f.owner, f.repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("pull request #%d %w", number, ErrNotFound)
		}
		return "", fmt.Errorf("fetch pull request #%d: %w", number, err)
	}

	files, _, err := f.client.PullRequests.ListFiles(ctx, f.owner, f.repo, number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", fmt.Errorf("list pull request files: %w", err)
	}
	return renderPullRequest(pr, files), nil
}

func renderPullRequest(pr *github.PullRequest, files []*github.CommitFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pull request #%d: %s\n", pr.GetNumber(), pr.GetTitle())
	fmt.Fprintf(&b, "Author: %s\n", pr.GetUser().GetLogin())
	fmt.Fprintf(&b, "Branch: %s -> %s\n", pr.GetHead().GetRef(), pr.GetBase().GetRef())
	state := pr.GetState()
	if pr.GetMerged() {
		state = "merged"
	}
	fmt.Fprintf(&b, "State: %s\n\n", state)

	if body := strings.TrimSpace(pr.GetBody()); body != "" {
		fmt.Fprintf(&b, "%s\n\n", body)
	}

	fmt.Fprintf(&b, "Files changed (%d):\n", len(files))
	for _, file := range files {
		fmt.Fprintf(&b, "    %s | %s\n", file.GetFilename(), changeCounts(file.GetAdditions(), file.GetDeletions()))
	}

	for _, file := range files {
		patch := file.GetPatch()
		if patch == "" {
			continue
		}
		oldPath := file.GetPreviousFilename()
		if oldPath == "" {
			oldPath = file.GetFilename()
		}
		fmt.Fprintf(&b, "\ndiff --git a/%s b/%s\n", oldPath, file.GetFilename())
		writePatchPreview(&b, patch)
	}
	return b.String()
}

func writePatchPreview(b *strings.Builder, patch string) {
	for i, line := range strings.Split(patch, "\n") {
		if i == patchPreviewLines {
			b.WriteString("...\n")
			return
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func changeCounts(insertions, deletions int) string {
	return fmt.Sprintf("%d insertion%s(+), %d deletion%s(-)", insertions, plural(insertions), deletions, plural(deletions))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
