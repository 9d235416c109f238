package assistant

import (
	"fmt"
	"regexp"
	"strings"
)

var crPatternRe = regexp.MustCompile(`(?i)CR[\s\-_]*(\d+)`)
var bareNumberRe = regexp.MustCompile(`\b(\d{4,})\b`)
var crFileNameRe = regexp.MustCompile(`(?i)CR[\s\-_]*\d+`)

// productCombos joins co-occurring brand terms into one canonical
// search phrase. First hit wins.
var productCombos = []struct {
	first, second string
	canonical     string
}{
	{"arogya", "sanjeevani", "Arogya Sanjeevani"},
	{"health", "shield", "Health Shield"},
	{"care", "supreme", "Care Supreme"},
}

// standalone brand terms, searched as-is when they appear alone
var brandTerms = []struct {
	term      string
	canonical string
}{
	{"arogya", "Arogya"},
	{"sanjeevani", "Sanjeevani"},
	{"mediclaim", "Mediclaim"},
}

// marketing phrases normalized to canonical casing
var marketingTerms = []struct {
	phrase    string
	canonical string
}{
	{"impact analysis", "Impact Analysis"},
	{"product brochure", "Product Brochure"},
	{"premium chart", "Premium Chart"},
}

// Words stripped before the free-text fallback. Action verbs, read
// verbs, file-type nouns, media nouns, count words and fillers.
var stopWords = map[string]bool{
	"find": true, "search": true, "show": true, "get": true, "fetch": true,
	"locate": true, "give": true, "list": true, "look": true, "need": true,
	"read": true, "summarize": true, "summary": true, "content": true,
	"explain": true, "tell": true, "about": true, "open": true,
	"file": true, "files": true, "document": true, "documents": true,
	"doc": true, "docs": true, "pdf": true, "folder": true, "folders": true,
	"image": true, "images": true, "photo": true, "photos": true,
	"picture": true, "video": true, "videos": true, "media": true,
	"all": true, "top": true, "first": true, "multiple": true, "many": true,
	"the": true, "a": true, "an": true, "me": true, "my": true, "for": true,
	"of": true, "in": true, "on": true, "to": true, "is": true, "what": true,
	"please": true, "can": true, "you": true, "i": true, "want": true,
	"recent": true, "latest": true, "and": true, "with": true, "that": true,
	"this": true, "from": true, ":": true, "items": true, "results": true,
}

// extractSearchTerms derives ordered query candidates from free text.
// The CR branch returns five variants, most specific first, bare number
// last; the fallback branch never returns more than one phrase.
func extractSearchTerms(text string) []string {
	// 1. Change-request identifiers get a fixed variant fan-out
	if m := crPatternRe.FindStringSubmatch(text); m != nil {
		n := m[1]
		return []string{
			"CR" + n,
			"CR_" + n,
			fmt.Sprintf("CR %s", n),
			"CR-" + n,
			n,
		}
	}

	lower := strings.ToLower(text)
	var terms []string

	// 2. Bare numeric identifiers of 4+ digits
	if m := bareNumberRe.FindStringSubmatch(text); m != nil {
		terms = append(terms, m[1])
	}

	// Product-name combinations: two co-occurring brand terms combine
	// into one canonical phrase
	comboMatched := false
	for _, combo := range productCombos {
		if strings.Contains(lower, combo.first) && strings.Contains(lower, combo.second) {
			terms = append(terms, combo.canonical)
			comboMatched = true
			break
		}
	}
	if !comboMatched {
		for _, brand := range brandTerms {
			if strings.Contains(lower, brand.term) {
				terms = append(terms, brand.canonical)
			}
		}
	}

	for _, mt := range marketingTerms {
		if strings.Contains(lower, mt.phrase) {
			terms = append(terms, mt.canonical)
		}
	}

	if len(terms) > 0 {
		return terms
	}

	// 4. Stop-word-filtered fallback: up to 4 surviving words as one phrase
	var kept []string
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?;:'\"()[]")
		if len(word) <= 2 || stopWords[word] {
			continue
		}
		kept = append(kept, word)
		if len(kept) == 4 {
			break
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return []string{strings.Join(kept, " ")}
}

// isCRFileName reports whether a filename carries a change-request
// identifier, which unlocks the impacted-areas extraction flow
func isCRFileName(name string) bool {
	return crFileNameRe.MatchString(name)
}
