package prompt

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/gitsumm/gitsumm/internal/logging"
)

const truncationNotice = "[history truncated to fit the prompt budget]"

// BoundHistory trims an oversized history extract to roughly budget tokens
// before it reaches a template. Splitting follows diff and commit boundaries
// so the kept prefix stays readable; a notice marks the cut. A budget of
// zero disables bounding.
func BoundHistory(text string, budget int, log logging.Logger) string {
	if budget <= 0 || EstimateTokens(text) <= budget {
		return text
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithSeparators([]string{"\ndiff --git", "\ncommit ", "\n\n", "\n", ""}),
		textsplitter.WithChunkSize(budget*approxCharsPerToken),
		textsplitter.WithChunkOverlap(0),
	)
	parts, err := splitter.SplitText(text)
	if err != nil || len(parts) == 0 {
		log.Error(err, "split history failed; sending untruncated extract")
		return text
	}

	var b strings.Builder
	total := 0
	for _, part := range parts {
		tokens := EstimateTokens(part)
		if total > 0 && total+tokens > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part)
		total += tokens
		if total >= budget {
			break
		}
	}

	log.Info("history extract truncated", "budget", budget, "kept_tokens", total)
	b.WriteString("\n\n" + truncationNotice)
	return b.String()
}
