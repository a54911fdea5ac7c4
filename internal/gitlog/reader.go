package gitlog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var (
	// ErrNotFound reports a branch or commit absent from the repository.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports malformed caller input, detected before any
	// repository access.
	ErrInvalidInput = errors.New("invalid input")
)

const dateLayout = "2006-01-02"

// Reader renders plain-text extracts of a repository's history. Every
// operation is stateless beyond the open repository handle.
type Reader struct {
	repo *git.Repository
}

// Open opens the repository containing path, searching parent directories
// the way the git CLI does.
func Open(path string) (*Reader, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository (or any parent directories): %w", err)
	}
	return &Reader{repo: repo}, nil
}

// NewReader wraps an already opened repository.
func NewReader(repo *git.Repository) *Reader {
	return &Reader{repo: repo}
}

// RecentLog renders the count most recent commits, newest first, with
// per-file change stats and a totals line per commit. A named branch scopes
// the traversal to that branch's tip.
func (r *Reader) RecentLog(count int, branch string) (string, error) {
	opts := &git.LogOptions{Order: git.LogOrderCommitterTime}
	if branch != "" {
		ref, err := r.branchRef(branch)
		if err != nil {
			return "", err
		}
		opts.From = ref.Hash()
	}

	iter, err := r.repo.Log(opts)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	var b strings.Builder
	taken := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if taken >= count {
			return storer.ErrStop
		}
		taken++

		writeCommitHeader(&b, c)
		stats, err := c.Stats()
		if err != nil {
			return fmt.Errorf("stats for %s: %w", shortHash(c.Hash), err)
		}
		insertions, deletions := 0, 0
		for _, fs := range stats {
			fmt.Fprintf(&b, "    %s | %s\n", fs.Name, changeCounts(fs.Addition, fs.Deletion))
			insertions += fs.Addition
			deletions += fs.Deletion
		}
		fmt.Fprintf(&b, "\n %d file%s changed, %s\n\n", len(stats), plural(len(stats)), changeCounts(insertions, deletions))
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// CommitDetail renders one commit's full metadata and a bounded preview of
// each changed file.
func (r *Reader) CommitDetail(hash string) (string, error) {
	if strings.TrimSpace(hash) == "" {
		return "", fmt.Errorf("%w: empty commit hash", ErrInvalidInput)
	}
	resolved, err := r.repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return "", fmt.Errorf("commit '%s' %w", hash, ErrNotFound)
	}
	commit, err := r.repo.CommitObject(*resolved)
	if err != nil {
		return "", fmt.Errorf("commit '%s' %w", hash, ErrNotFound)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", commit.Hash)
	fmt.Fprintf(&b, "Author: %s <%s>\n", commit.Author.Name, commit.Author.Email)
	fmt.Fprintf(&b, "Date:   %s\n\n", commit.Author.When.Format(timeLayout))
	fmt.Fprintf(&b, "    %s\n\n", commit.Message)

	changes, err := r.commitChanges(commit)
	if err != nil {
		return "", err
	}
	for _, change := range changes {
		if err := writeChangePreview(&b, change); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// RangeLog renders the commits authored between two calendar dates, both
// inclusive. An empty window is a sentinel result, not an error.
func (r *Reader) RangeLog(start, end, branch string) (string, error) {
	since, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", fmt.Errorf("%w: date '%s' must use the YYYY-MM-DD format", ErrInvalidInput, start)
	}
	endDay, err := time.Parse(dateLayout, end)
	if err != nil {
		return "", fmt.Errorf("%w: date '%s' must use the YYYY-MM-DD format", ErrInvalidInput, end)
	}
	until := endDay.AddDate(0, 0, 1)

	opts := &git.LogOptions{Order: git.LogOrderCommitterTime, Since: &since, Until: &until}
	if branch != "" {
		ref, err := r.branchRef(branch)
		if err != nil {
			return "", err
		}
		opts.From = ref.Hash()
	}

	iter, err := r.repo.Log(opts)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	var commits []*object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(commits) == 0 {
		return fmt.Sprintf("No commits found between %s and %s", start, end), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Commits between %s and %s:\n\n", start, end)
	for _, c := range commits {
		writeCommitHeader(&b, c)
	}
	return b.String(), nil
}

// BranchDiff renders the commits unique to compare relative to base and a
// diffstat between the two branch tips.
func (r *Reader) BranchDiff(base, compare string) (string, error) {
	baseRef, err := r.branchRef(base)
	if err != nil {
		return "", err
	}
	compareRef, err := r.branchRef(compare)
	if err != nil {
		return "", err
	}

	baseCommit, err := r.repo.CommitObject(baseRef.Hash())
	if err != nil {
		return "", fmt.Errorf("branch '%s' tip: %w", base, err)
	}
	compareCommit, err := r.repo.CommitObject(compareRef.Hash())
	if err != nil {
		return "", fmt.Errorf("branch '%s' tip: %w", compare, err)
	}

	ahead, err := commitsAhead(baseCommit, compareCommit)
	if err != nil {
		return "", fmt.Errorf("walk commits: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Branch comparison between %s and %s:\n\n", base, compare)
	fmt.Fprintf(&b, "Number of commits ahead: %d\n\n", len(ahead))
	b.WriteString("Commits:\n")
	for _, c := range ahead {
		fmt.Fprintf(&b, "%s %s\n", shortHash(c.Hash), subjectLine(c.Message))
	}

	stats, err := diffStat(baseCommit, compareCommit)
	if err != nil {
		return "", err
	}
	b.WriteString("\nDiff stats:\n")
	b.WriteString(stats)
	return b.String(), nil
}

// CurrentBranch returns the branch name HEAD points at.
func (r *Reader) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return head.Name().Short(), nil
}

func (r *Reader) branchRef(name string) (*plumbing.Reference, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		return nil, fmt.Errorf("branch '%s' %w", name, ErrNotFound)
	}
	return ref, nil
}

func (r *Reader) commitChanges(commit *object.Commit) (object.Changes, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("parent commit: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("parent tree: %w", err)
		}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	return changes, nil
}

// commitsAhead returns the commits reachable from compare but not from
// base, newest first.
func commitsAhead(base, compare *object.Commit) ([]*object.Commit, error) {
	seen := map[plumbing.Hash]bool{}
	baseIter := object.NewCommitPreorderIter(base, nil, nil)
	if err := baseIter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	}); err != nil {
		return nil, err
	}

	var ahead []*object.Commit
	compareIter := object.NewCommitPreorderIter(compare, seen, nil)
	if err := compareIter.ForEach(func(c *object.Commit) error {
		ahead = append(ahead, c)
		return nil
	}); err != nil {
		return nil, err
	}
	return ahead, nil
}

func diffStat(base, compare *object.Commit) (string, error) {
	baseTree, err := base.Tree()
	if err != nil {
		return "", fmt.Errorf("base tree: %w", err)
	}
	compareTree, err := compare.Tree()
	if err != nil {
		return "", fmt.Errorf("compare tree: %w", err)
	}
	patch, err := baseTree.Patch(compareTree)
	if err != nil {
		return "", fmt.Errorf("diff branches: %w", err)
	}

	stats := patch.Stats()
	insertions, deletions := 0, 0
	for _, fs := range stats {
		insertions += fs.Addition
		deletions += fs.Deletion
	}

	var b strings.Builder
	b.WriteString(stats.String())
	fmt.Fprintf(&b, " %d file%s changed, %s\n", len(stats), plural(len(stats)), changeCounts(insertions, deletions))
	return b.String(), nil
}
