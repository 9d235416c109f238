package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/msauth"
)

var videoIntentRe = regexp.MustCompile(`\b(video|recording|meeting|call)\b`)

// readableExtensions are the types text can plausibly be extracted from
var readableExtensions = map[string]bool{
	"docx": true, "doc": true, "pdf": true, "txt": true, "md": true,
	"csv": true, "xlsx": true, "xls": true, "pptx": true, "ppt": true,
}

// readAndSummarize is the read/summarize pipeline: try each extracted
// term in order, prefer the first term whose results contain a filename
// match, and fall back to the first non-empty result set otherwise.
// The scan is sequential with early exit to preserve term priority.
func (e *Engine) readAndSummarize(ctx context.Context, state *SessionState, lower string, terms []string) *BotMessage {
	videoIntent := videoIntentRe.MatchString(lower)
	authFailed := false

	var chosen, fallback []drive.FileRecord
	var usedTerm, fallbackTerm string

	for _, term := range terms {
		results := e.search(ctx, term, &authFailed)
		if len(results) == 0 {
			continue
		}
		filtered := filterReadable(results, videoIntent)
		if len(filtered) == 0 {
			continue
		}
		if fallback == nil {
			fallback = filtered
			fallbackTerm = term
		}
		if hasNameMatch(filtered, term) {
			chosen = filtered
			usedTerm = term
			break
		}
	}

	// No name match anywhere: take the first readable result set as-is,
	// even if it turns out to be an unrelated document
	if chosen == nil {
		chosen = fallback
		usedTerm = fallbackTerm
	}
	if len(chosen) == 0 {
		if authFailed {
			return textReply(msgAuthRequired)
		}
		return textReply(fmt.Sprintf(
			"I couldn't find a readable document for %q. Try the exact file name or a CR number.",
			strings.Join(terms, ", ")))
	}

	sortForRead(chosen, usedTerm, videoIntent)
	target := chosen[0]

	if len(chosen) > 1 {
		state.LastSearchResults = chosen
	}

	var reply *BotMessage
	if target.IsVideo() {
		reply = e.openVideoTranscript(ctx, state, target)
	} else {
		reply = e.openDocument(ctx, state, target)
	}

	if len(chosen) > 1 {
		mention := fmt.Sprintf(msgMoreFilesMatched, len(chosen)-1)
		if idx := strings.LastIndex(reply.Text, "\n\n"+msgPickFollowUp); reply.Kind == BotKindSuggestions && idx >= 0 {
			// Keep the follow-up prompt as the last line, right above the
			// rendered question list.
			reply.Text = reply.Text[:idx] + "\n\n" + mention + reply.Text[idx:]
		} else {
			reply.Text += "\n\n" + mention
		}
	}
	return reply
}

// openDocument loads a document's content, sets it active and responds
// with a summary, or degrades to a metadata card when no usable text
// came back
func (e *Engine) openDocument(ctx context.Context, state *SessionState, file drive.FileRecord) *BotMessage {
	content, err := e.files.GetDocumentContent(ctx, file.Id, file.Name)
	if err != nil {
		e.logf("[ENGINE] content fetch for %s failed: %v", file.Name, err)
		if errors.Is(err, msauth.ErrInteractionRequired) {
			return textReply(msgAuthRequired)
		}
		reply := filesReply(metadataCard(file, "I couldn't extract its text - open it externally instead."), []drive.FileRecord{file})
		publishFiles(state, reply.Items)
		return reply
	}

	// Short extractions are format noise, not real content
	if len(content.Content) <= 50 {
		reply := filesReply(metadataCard(file, "The file doesn't carry extractable text - open it externally to view it."), []drive.FileRecord{file})
		publishFiles(state, reply.Items)
		return reply
	}

	state.ActiveDocument = &ActiveDocument{
		Id:      file.Id,
		Name:    file.Name,
		Content: content.Content,
		Path:    content.Path,
	}

	summary := e.generateSummary(ctx, content.Content, file.Name)
	text := fmt.Sprintf("Here's a summary of %s:\n\n%s\n\nPath: %s", file.Name, summary, content.Path)

	if isCRFileName(file.Name) && e.ai.Enabled() {
		if impacted, err := e.ai.ExtractImpactedAreas(ctx, content.Content, file.Name); err == nil && impacted != "" {
			text += "\n\nImpacted areas:\n" + impacted
		}
		questions, err := e.ai.SuggestQuestions(ctx, content.Content, file.Name)
		if err != nil {
			e.logf("[ENGINE] question suggestion failed: %v", err)
		}
		questions = append(questions,
			"simplify in layman terms",
			"break down tasks for dev assignment",
		)
		state.SetSuggestedQuestions(questions)
		state.SourceDocuments = []drive.FileRecord{file}

		return &BotMessage{
			Kind:        BotKindSuggestions,
			Text:        text + "\n\n" + msgPickFollowUp,
			Suggestions: questions,
			Sources:     []drive.FileRecord{file},
		}
	}

	reply := &BotMessage{
		Kind:    BotKindText,
		Text:    text,
		Sources: []drive.FileRecord{file},
	}
	publishFiles(state, []drive.FileRecord{file})
	return reply
}

// openVideoTranscript fetches and summarizes a recording's transcript
func (e *Engine) openVideoTranscript(ctx context.Context, state *SessionState, file drive.FileRecord) *BotMessage {
	transcript, err := e.files.GetVideoTranscript(ctx, file)
	if err != nil {
		e.logf("[ENGINE] transcript fetch for %s failed: %v", file.Name, err)
		if errors.Is(err, msauth.ErrInteractionRequired) {
			return textReply(msgAuthRequired)
		}
		return textReply(fmt.Sprintf(msgNoTranscript, file.Name))
	}
	if !transcript.HasTranscript {
		return textReply(fmt.Sprintf(msgNoTranscript, file.Name))
	}

	state.ActiveDocument = &ActiveDocument{
		Id:      file.Id,
		Name:    file.Name,
		Content: transcript.Content,
		Path:    file.Path,
		IsVideo: true,
	}

	summary := e.generateSummary(ctx, transcript.Content, file.Name)
	reply := &BotMessage{
		Kind:    BotKindText,
		Text:    fmt.Sprintf("Here's a summary of the recording %s:\n\n%s\n\nPath: %s", file.Name, summary, file.Path),
		Sources: []drive.FileRecord{file},
		IsVideo: true,
	}
	publishFiles(state, []drive.FileRecord{file})
	return reply
}

// generateSummary prefers the AI backend and falls back to the
// extractive heuristic when it is absent or fails
func (e *Engine) generateSummary(ctx context.Context, text, title string) string {
	if e.ai.Enabled() {
		summary, err := e.ai.Summarize(ctx, text, title)
		if err == nil && summary != "" {
			return summary
		}
		if err != nil {
			e.logf("[ENGINE] summarize failed, using extractive fallback: %v", err)
		}
	}
	return ExtractiveSummary(text)
}

// filterReadable keeps files text can be extracted from, unless the
// message explicitly asked for a recording
func filterReadable(results []drive.FileRecord, videoIntent bool) []drive.FileRecord {
	filtered := make([]drive.FileRecord, 0, len(results))
	for _, r := range results {
		if r.IsFolder {
			continue
		}
		if videoIntent && r.IsVideo() {
			filtered = append(filtered, r)
			continue
		}
		if readableExtensions[lowerExtOf(r.Name)] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func lowerExtOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

func hasNameMatch(results []drive.FileRecord, term string) bool {
	lowerTerm := strings.ToLower(term)
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Name), lowerTerm) {
			return true
		}
	}
	return false
}

// sortForRead stable-partitions filename matches to the front, then
// hoists the first video when the user asked for a recording
func sortForRead(results []drive.FileRecord, term string, videoIntent bool) {
	lowerTerm := strings.ToLower(term)
	partitioned := make([]drive.FileRecord, 0, len(results))
	var rest []drive.FileRecord
	for _, r := range results {
		if lowerTerm != "" && strings.Contains(strings.ToLower(r.Name), lowerTerm) {
			partitioned = append(partitioned, r)
		} else {
			rest = append(rest, r)
		}
	}
	partitioned = append(partitioned, rest...)
	copy(results, partitioned)

	if videoIntent {
		for i, r := range results {
			if r.IsVideo() {
				video := results[i]
				copy(results[1:i+1], results[0:i])
				results[0] = video
				break
			}
		}
	}
}
