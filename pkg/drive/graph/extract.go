package graph

import (
	"regexp"
	"strings"
	"unicode"

	"drive-assistant-be/pkg/drive"
)

var vttTimestampRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[.,]\d{3}\s+-->`)

// extractText turns downloaded bytes into usable text. Plain-text
// formats pass through; binary office formats are scraped for printable
// runs, which is enough for the summarizer to work with. Full fidelity
// extraction is the backend's concern, not ours.
func extractText(name string, raw []byte) string {
	switch drive.TypeForName(name) {
	case drive.FileTypeDocument, drive.FileTypeSpreadsheet:
		if isPlainText(name) {
			return string(raw)
		}
	case drive.FileTypePDF, drive.FileTypePresentation:
		// fall through to the scrape below
	default:
		if isPlainText(name) {
			return string(raw)
		}
	}
	return scrapePrintable(raw)
}

func isPlainText(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".txt", ".md", ".csv", ".json", ".xml", ".html", ".vtt"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// scrapePrintable keeps runs of printable characters of length >= 4,
// dropping binary noise. Short runs are almost always format artifacts.
func scrapePrintable(raw []byte) string {
	var sb strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= 4 {
			sb.WriteString(string(run))
			sb.WriteByte(' ')
		}
		run = run[:0]
	}
	for _, r := range string(raw) {
		if unicode.IsPrint(r) && r != '�' {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(sb.String())
}

// cleanTranscript strips the WEBVTT header, cue timestamps and speaker
// tags so the summarizer sees spoken text only
func cleanTranscript(raw string) string {
	lines := strings.Split(raw, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line == "WEBVTT" {
			continue
		}
		if vttTimestampRe.MatchString(line) {
			continue
		}
		// Cue identifiers are bare sequence numbers
		if isDigits(line) {
			continue
		}
		line = strings.ReplaceAll(line, "<v ", "")
		line = strings.ReplaceAll(line, "</v>", "")
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
