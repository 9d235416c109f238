package assistant

import (
	"strings"
	"testing"
)

func TestExtractiveSummaryLongDocument(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("The change request modifies the premium calculation module for the retail line of business. ")
	}
	input := sb.String()
	if len(input) < 1000 {
		t.Fatalf("test input too short: %d chars", len(input))
	}

	summary := ExtractiveSummary(input)
	if summary == "" {
		t.Fatal("summary is empty")
	}
	if len(summary) > 500 {
		t.Errorf("summary is %d chars, want <= 500", len(summary))
	}
	if !strings.HasSuffix(summary, ".") {
		t.Errorf("summary does not end on a sentence boundary: %q", summary)
	}
}

func TestExtractiveSummaryDropsNoise(t *testing.T) {
	input := "short.\n" +
		"[*** ----- 1234 ***].\n" +
		"This sentence carries the actual content of the document. " +
		"And this second sentence carries some more of the content.\n"

	summary := ExtractiveSummary(input)
	if strings.Contains(summary, "1234") {
		t.Errorf("bracket noise survived: %q", summary)
	}
	if strings.Contains(summary, "short") {
		t.Errorf("short fragment survived: %q", summary)
	}
	if !strings.Contains(summary, "actual content") {
		t.Errorf("real sentence missing: %q", summary)
	}
}

func TestExtractiveSummaryDedupesRepeatedLines(t *testing.T) {
	input := "The onboarding guide explains the first-week setup steps.\n" +
		"The onboarding guide explains the first-week setup steps.\n" +
		"The onboarding guide explains the first-week setup steps.\n"

	summary := ExtractiveSummary(input)
	if n := strings.Count(summary, "onboarding guide"); n != 1 {
		t.Errorf("repeated line appears %d times, want 1: %q", n, summary)
	}
}

func TestExtractiveSummaryTruncatesWhenNoSentences(t *testing.T) {
	// Long run of text without sentence punctuation but with many short
	// whitespace-separated fragments.
	input := strings.Repeat("col1 col2 col3 col4 ", 60)

	summary := ExtractiveSummary(input)
	if summary == "" {
		t.Fatal("summary is empty")
	}
	if len(summary) > 500 {
		t.Errorf("summary is %d chars, want <= 500", len(summary))
	}
	if !strings.HasSuffix(summary, "...") {
		t.Errorf("truncated summary missing ellipsis: %q", summary)
	}
}

func TestExtractiveSummaryEmptyInput(t *testing.T) {
	if got := ExtractiveSummary("   \n\n  "); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
