package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent classification is substring/regex based on purpose. Ties are
// broken by the engine's guard evaluation order, never by scoring.

var readSummaryKeywords = []string{
	"read", "summarize", "summary", "content", "what does", "what is in",
	"tell me about", "explain", "transcript", "meeting", "recording", "call",
}

var searchActionKeywords = []string{
	"find", "search", "show", "get", "fetch", "look for", "locate", "list",
	"give me", "need",
}

var fileTypeKeywords = []string{
	"file", "document", "doc", "pdf", "excel", "spreadsheet", "sheet",
	"presentation", "ppt", "folder", "report",
}

// Product and domain terms recognized as search triggers on their own
var domainTerms = []string{
	"arogya", "sanjeevani", "policy", "health", "insurance", "claim",
	"premium", "mediclaim", "proposal", "brochure",
}

var imageKeywords = []string{
	"image", "photo", "picture", "screenshot", "png", "jpg", "jpeg", "gif",
}

var videoKeywords = []string{
	"video", "mp4", "clip", "recording",
}

var mediaKeywords = []string{"media"}

var multipleKeywords = []string{
	"all", "files", "documents", "multiple", "many", "several", "every", "list",
}

var docQuestionActions = []string{
	"simplify", "layman", "break down", "breakdown", "dev assignment",
	"task breakdown", "elaborate", "rephrase", "shorter", "bullet",
}

var questionWords = []string{
	"what", "why", "how", "when", "where", "who", "which", "can", "does",
	"is", "are", "do", "list", "describe",
}

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

var countPatterns = []*regexp.Regexp{
	regexp.MustCompile(`top (\d+)`),
	regexp.MustCompile(`first (\d+)`),
	regexp.MustCompile(`show (\d+)`),
	regexp.MustCompile(`list (\d+)`),
	regexp.MustCompile(`get (\d+)`),
	regexp.MustCompile(`(\d+) (?:files|documents|results|items)`),
}

// isNumberSelection reports whether the trimmed text is digits only
func isNumberSelection(text string) bool {
	return digitsOnlyRe.MatchString(strings.TrimSpace(text))
}

// isReadSummaryRequest detects read/summarize intent
func isReadSummaryRequest(text string) bool {
	return containsAny(text, readSummaryKeywords)
}

// isFileSearchRequest detects a file search: an action keyword, a file
// type keyword, or a recognized product/domain term
func isFileSearchRequest(text string) bool {
	if containsAny(text, searchActionKeywords) {
		return true
	}
	if containsAny(text, fileTypeKeywords) {
		return true
	}
	return containsAny(text, domainTerms)
}

// isMediaRequest detects image/video/media intent, extensions included
func isMediaRequest(text string) bool {
	return containsAny(text, imageKeywords) ||
		containsAny(text, videoKeywords) ||
		containsAny(text, mediaKeywords)
}

// getMediaType narrows a media request: image when only image keywords
// are present, video when only video keywords are, otherwise all
func getMediaType(text string) string {
	hasImage := containsAny(text, imageKeywords)
	hasVideo := containsAny(text, videoKeywords)
	switch {
	case hasImage && !hasVideo:
		return "image"
	case hasVideo && !hasImage:
		return "video"
	default:
		return "all"
	}
}

// wantsMultipleFiles reports plural intent: a plural/count keyword or
// an extractable numeric count
func wantsMultipleFiles(text string) bool {
	if containsAny(text, multipleKeywords) {
		return true
	}
	return getRequestedCount(text) > 0
}

// getRequestedCount extracts an explicit result count, clamped to
// (0, 50]. Zero means no count was requested.
func getRequestedCount(text string) int {
	for _, re := range countPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				continue
			}
			if n > 50 {
				n = 50
			}
			return n
		}
	}
	return 0
}

// wantsFolders controls folder post-filtering of results
func wantsFolders(text string) bool {
	return strings.Contains(text, "folder")
}

// wantsDocumentsOnly controls document post-filtering of results
func wantsDocumentsOnly(text string) bool {
	return strings.Contains(text, "document") ||
		strings.Contains(text, "docs") ||
		strings.Contains(text, "pdf")
}

// isDocumentQuestion decides whether text is a question about the
// active document. Always false without an active document.
func isDocumentQuestion(text string, hasActiveDocument bool) bool {
	if !hasActiveDocument {
		return false
	}
	if containsAny(text, docQuestionActions) {
		return true
	}
	if strings.Contains(text, "?") {
		return true
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, qw := range questionWords {
		if words[0] == qw {
			return true
		}
		for _, w := range words {
			if w == qw {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
