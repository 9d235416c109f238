package assistant

import (
	"regexp"
	"strings"
)

const (
	summaryMaxLength   = 500
	summaryMaxSents    = 5
	summaryMinSentence = 20
)

var whitespaceRe = regexp.MustCompile(`\s+`)
var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s`)
var bracketOnlyRe = regexp.MustCompile(`^[\[\]{}()<>\s|*#\-_=+.,;:'"0-9]*$`)

// ExtractiveSummary is the non-AI fallback: dedupe lines, collapse
// whitespace, keep sentences longer than 20 chars that are not
// bracket/punctuation noise, and concatenate up to 5 of them while
// staying under 500 chars. When nothing qualifies the raw text is
// truncated with an ellipsis.
func ExtractiveSummary(text string) string {
	cleaned := dedupeLines(text)
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}

	var sb strings.Builder
	count := 0
	for _, sentence := range sentenceSplitRe.Split(cleaned, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= summaryMinSentence {
			continue
		}
		if bracketOnlyRe.MatchString(sentence) {
			continue
		}
		if sb.Len()+len(sentence)+2 > summaryMaxLength {
			break
		}
		sb.WriteString(sentence)
		sb.WriteString(". ")
		count++
		if count == summaryMaxSents {
			break
		}
	}

	if count == 0 {
		if len(cleaned) > summaryMaxLength-3 {
			return cleaned[:summaryMaxLength-3] + "..."
		}
		return cleaned
	}
	return strings.TrimSpace(sb.String())
}

// dedupeLines drops empty lines and immediate repeats, a common
// artifact of text extracted from office documents
func dedupeLines(text string) string {
	var kept []string
	var prev string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == prev {
			continue
		}
		kept = append(kept, line)
		prev = line
	}
	return strings.Join(kept, "\n")
}
