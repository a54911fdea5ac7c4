package gitlog

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const timeLayout = "2006-01-02 15:04:05"

// diffPreviewLines bounds how many lines of each side of a changed file
// reach the prompt. Raising it grows the prompt for every summarized commit.
const diffPreviewLines = 5

func writeCommitHeader(b *strings.Builder, c *object.Commit) {
	fmt.Fprintf(b, "%s %s\n", shortHash(c.Hash), subjectLine(c.Message))
	fmt.Fprintf(b, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(b, "Date:   %s\n\n", c.Author.When.Format(timeLayout))
}

func writeChangePreview(b *strings.Builder, change *object.Change) error {
	oldPath := change.From.Name
	newPath := change.To.Name
	if oldPath == "" {
		oldPath = newPath
	}
	if newPath == "" {
		newPath = oldPath
	}
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", oldPath, newPath)

	from, to, err := change.Files()
	if err != nil {
		return fmt.Errorf("change files: %w", err)
	}
	// Only modified files carry a body preview; creations and deletions
	// keep just the header line.
	if from == nil || to == nil {
		return nil
	}

	fmt.Fprintf(b, "--- a/%s\n", oldPath)
	fmt.Fprintf(b, "+++ b/%s\n", newPath)

	oldLines, err := from.Lines()
	if err != nil {
		return fmt.Errorf("old content: %w", err)
	}
	newLines, err := to.Lines()
	if err != nil {
		return fmt.Errorf("new content: %w", err)
	}
	writePreviewLines(b, oldLines, "-")
	writePreviewLines(b, newLines, "+")
	return nil
}

func writePreviewLines(b *strings.Builder, lines []string, prefix string) {
	for i, line := range lines {
		if i == diffPreviewLines {
			b.WriteString("...\n")
			return
		}
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func changeCounts(insertions, deletions int) string {
	return fmt.Sprintf("%d insertion%s(+), %d deletion%s(-)", insertions, plural(insertions), deletions, plural(deletions))
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}

func subjectLine(message string) string {
	return strings.SplitN(message, "\n", 2)[0]
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
