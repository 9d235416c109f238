package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/msauth"
)

const (
	defaultRecentCount   = 10
	multipleResultsCount = 5
)

// showAllResults expands the previous search to its full result set
func (e *Engine) showAllResults(state *SessionState) *BotMessage {
	full := state.LastSearchResults
	publishFiles(state, full)
	return filesReply(fmt.Sprintf("Here are all %d files I found:", len(full)), full)
}

// listRecentFiles fetches the user's recent items, filtered and sliced
// to the requested or default count
func (e *Engine) listRecentFiles(ctx context.Context, state *SessionState, lower string) *BotMessage {
	results, err := e.files.GetRecentFiles(ctx)
	if err != nil {
		e.logf("[ENGINE] recent files failed: %v", err)
		if errors.Is(err, msauth.ErrInteractionRequired) {
			return textReply(msgAuthRequired)
		}
		return textReply(msgSearchFailed)
	}

	results = applyTypeFilters(results, lower)
	if len(results) == 0 {
		return textReply("You don't have any recent files matching that.")
	}

	count := getRequestedCount(lower)
	if count == 0 {
		count = defaultRecentCount
	}
	if count > len(results) {
		count = len(results)
	}
	shown := results[:count]

	publishFiles(state, shown)
	return filesReply(fmt.Sprintf("Here are your %d most recent files:", len(shown)), shown)
}

// searchMedia handles image/video requests with type-specific captions
func (e *Engine) searchMedia(ctx context.Context, state *SessionState, rawText, lower string) *BotMessage {
	mediaType := drive.MediaType(getMediaType(lower))

	term := ""
	if terms := extractSearchTerms(rawText); len(terms) > 0 {
		term = terms[0]
	}

	results, err := e.files.SearchMedia(ctx, term, mediaType)
	if err != nil {
		e.logf("[ENGINE] media search failed: %v", err)
		if errors.Is(err, msauth.ErrInteractionRequired) {
			return textReply(msgAuthRequired)
		}
		return textReply(msgSearchFailed)
	}
	if len(results) == 0 {
		return textReply(msgNoMedia)
	}

	// Explicit count beats the "show multiple" heuristic beats one
	count := getRequestedCount(lower)
	if count == 0 {
		if wantsMultipleFiles(lower) {
			count = multipleResultsCount
		} else {
			count = 1
		}
	}
	if count > len(results) {
		count = len(results)
	}
	shown := results[:count]

	publishFiles(state, shown)

	reply := &BotMessage{
		Kind:    BotKindMedia,
		Items:   shown,
		Sources: shown,
	}
	switch mediaType {
	case drive.MediaTypeImage:
		reply.IsImage = true
		reply.Text = fmt.Sprintf("Here %s:", pluralize(len(shown), "is the image I found", "are %d images I found"))
	case drive.MediaTypeVideo:
		reply.IsVideo = true
		reply.Text = fmt.Sprintf("Here %s:", pluralize(len(shown), "is the video I found", "are %d videos I found"))
	default:
		reply.Text = fmt.Sprintf("Here %s:", pluralize(len(shown), "is the media file I found", "are %d media files I found"))
	}
	return reply
}

// searchFiles is the generic multi-term search guard
func (e *Engine) searchFiles(ctx context.Context, state *SessionState, rawText, lower string) *BotMessage {
	terms := extractSearchTerms(rawText)
	if len(terms) == 0 {
		// "top 15 documents" carries no topic at all: serve it from the
		// recent listing with the same filters and count
		if getRequestedCount(lower) > 0 || wantsMultipleFiles(lower) {
			return e.listRecentFiles(ctx, state, lower)
		}
		return textReply(msgClarifySearch)
	}
	if reply := e.runSearchPipeline(ctx, state, lower, terms); reply != nil {
		return reply
	}
	return textReply(fmt.Sprintf(
		"I couldn't find anything for %q. Try the exact file name, a CR number, or say \"recent files\".",
		strings.Join(terms, ", ")))
}

// runSearchPipeline searches every term, de-duplicates by id, applies
// the folder/document filters and renders either a list or a single
// summary card. Returns nil when nothing was found so callers can fall
// through to their own default.
func (e *Engine) runSearchPipeline(ctx context.Context, state *SessionState, lower string, terms []string) *BotMessage {
	authFailed := false
	seen := make(map[string]bool)
	var combined []drive.FileRecord

	for _, term := range terms {
		for _, r := range e.search(ctx, term, &authFailed) {
			if seen[r.Id] {
				continue
			}
			seen[r.Id] = true
			combined = append(combined, r)
		}
	}

	// The backend search index lags fresh uploads; consult the bounded
	// recent-uploads list before giving up
	if len(combined) == 0 {
		for _, upload := range state.RecentUploads {
			for _, term := range terms {
				if strings.Contains(strings.ToLower(upload.Name), strings.ToLower(term)) {
					combined = append(combined, upload)
					break
				}
			}
		}
	}

	combined = applyTypeFilters(combined, lower)
	if len(combined) == 0 {
		if authFailed {
			return textReply(msgAuthRequired)
		}
		return nil
	}

	count := getRequestedCount(lower)
	if count == 0 {
		if wantsMultipleFiles(lower) {
			count = multipleResultsCount
		} else {
			count = 1
		}
	}
	if count > len(combined) {
		count = len(combined)
	}
	shown := combined[:count]

	state.LastSearchResults = combined
	publishFiles(state, shown)

	if len(shown) == 1 {
		text := metadataCard(shown[0], "Type a read or summarize request to open it.")
		if len(combined) > 1 {
			text += fmt.Sprintf("\n\n%d more files found - say \"show all files\" to see them.", len(combined)-1)
		}
		return filesReply(text, shown)
	}

	text := fmt.Sprintf("I found %d files:", len(shown))
	if len(combined) > len(shown) {
		text = fmt.Sprintf("I found %d files (showing %d) - say \"show all files\" for the rest:", len(combined), len(shown))
	}
	return filesReply(text, shown)
}

// applyTypeFilters narrows results to folders or documents when the
// message asked for them
func applyTypeFilters(results []drive.FileRecord, lower string) []drive.FileRecord {
	if wantsFolders(lower) {
		var folders []drive.FileRecord
		for _, r := range results {
			if r.IsFolder {
				folders = append(folders, r)
			}
		}
		return folders
	}
	if wantsDocumentsOnly(lower) {
		var docs []drive.FileRecord
		for _, r := range results {
			switch lowerExtOf(r.Name) {
			case "doc", "docx", "pdf":
				docs = append(docs, r)
			}
		}
		return docs
	}
	return results
}

func metadataCard(file drive.FileRecord, note string) string {
	var sb strings.Builder
	sb.WriteString(file.Name)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Type: %s", file.Type))
	if file.Size > 0 {
		sb.WriteString(fmt.Sprintf(" | Size: %s", formatSize(file.Size)))
	}
	if file.Date != "" {
		sb.WriteString(fmt.Sprintf(" | Modified: %s", file.Date))
	}
	if file.SharedBy != "" {
		sb.WriteString(fmt.Sprintf(" | By: %s", file.SharedBy))
	}
	if file.Path != "" {
		sb.WriteString(fmt.Sprintf("\nPath: %s", file.Path))
	}
	if note != "" {
		sb.WriteString("\n")
		sb.WriteString(note)
	}
	return sb.String()
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func pluralize(n int, singular, pluralFormat string) string {
	if n == 1 {
		return singular
	}
	return fmt.Sprintf(pluralFormat, n)
}
