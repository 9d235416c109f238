package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"drive-assistant-be/pkg/ai"
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/msauth"
)

// AI is the summarize/answer/chat capability the engine consumes.
// When Enabled() is false none of the other methods may be called.
type AI interface {
	Enabled() bool
	Summarize(ctx context.Context, text, title string) (string, error)
	Answer(ctx context.Context, text, question, title string) (string, error)
	Chat(ctx context.Context, message string, history []llm.Message) (string, error)
	ExtractImpactedAreas(ctx context.Context, text, title string) (string, error)
	SuggestQuestions(ctx context.Context, text, title string) ([]string, error)
	ExtractReportForm(ctx context.Context, content string) (*ai.ReportForm, error)
}

// origin distinguishes raw user text from text resolved out of a
// numbered suggestion, which structurally bounds the re-dispatch to a
// single level
type origin int

const (
	originUser origin = iota
	originResolved
)

// Engine routes one line of user text through an ordered chain of
// mutually exclusive guards and mutates the session state accordingly.
// Exactly one HandleMessage call is in flight per session at a time.
type Engine struct {
	files  drive.FileRepository
	ai     AI
	kb     *KnowledgeBase
	logger *log.Logger
}

func NewEngine(files drive.FileRepository, aiService AI, kb *KnowledgeBase, logger *log.Logger) *Engine {
	if kb == nil {
		kb = NewKnowledgeBase()
	}
	if aiService == nil {
		aiService = ai.Disabled()
	}
	return &Engine{
		files:  files,
		ai:     aiService,
		kb:     kb,
		logger: logger,
	}
}

// HandleMessage is the single entry point. It never returns an error:
// every collaborator failure degrades to a textual bot reply.
func (e *Engine) HandleMessage(ctx context.Context, state *SessionState, rawText string) *BotMessage {
	state.Messages = append(state.Messages, ChatMessage{
		Type: MessageTypeUser,
		Text: rawText,
	})

	reply := e.dispatch(ctx, state, rawText, originUser)

	state.Messages = append(state.Messages, ChatMessage{
		Type:    MessageTypeBot,
		Text:    reply.Text,
		Sources: reply.Sources,
		IsImage: reply.IsImage,
		IsVideo: reply.IsVideo,
	})
	return reply
}

// dispatch runs the guard chain. Guards are evaluated in this exact
// priority order; the first match wins.
func (e *Engine) dispatch(ctx context.Context, state *SessionState, rawText string, from origin) *BotMessage {
	lower := strings.ToLower(strings.TrimSpace(rawText))

	// 1. Expand the previous search to its full result set
	if (strings.Contains(lower, "show all files") || strings.Contains(lower, "show all") ||
		strings.Contains(lower, "see more")) && len(state.LastSearchResults) > 1 {
		return e.showAllResults(state)
	}

	// 2. Recent-files listing
	if containsAny(lower, []string{
		"recent files", "my recent", "show recent", "list recent",
		"all files", "list files", "my files",
	}) {
		return e.listRecentFiles(ctx, state, lower)
	}

	// 3. Digits select a suggested question: consume the list and
	// re-dispatch the question text as if the user typed it
	if from == originUser && isNumberSelection(lower) && len(state.LastSuggestedQuestions) > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(lower)); err == nil &&
			n >= 1 && n <= len(state.LastSuggestedQuestions) {
			question := state.LastSuggestedQuestions[n-1]
			state.LastSuggestedQuestions = nil
			return e.dispatch(ctx, state, question, originResolved)
		}
	}

	// 4. Digits select a file from the last numbered list
	if isNumberSelection(lower) {
		return e.selectFromFileList(ctx, state, lower)
	}

	// 5. Release the active document
	if containsAny(lower, []string{
		"new document", "different document", "another document", "clear document",
	}) {
		state.ActiveDocument = nil
		state.SourceDocuments = nil
		return textReply(msgDocumentCleared)
	}

	// 6. Read / summarize a document
	if isReadSummaryRequest(lower) {
		terms := extractSearchTerms(rawText)
		if len(terms) == 0 {
			return textReply(msgClarifyRead)
		}
		return e.readAndSummarize(ctx, state, lower, terms)
	}

	// 7. Impact analysis report generation, pre-filled from the active
	// document; the binary generator itself is a separate collaborator
	if containsAny(lower, []string{
		"generate pm", "create pm", "pm document", "impact analysis document",
	}) {
		return e.prefillReport(ctx, state)
	}

	// 8. Question about the active document
	if e.ai.Enabled() && state.ActiveDocument != nil && isDocumentQuestion(lower, true) {
		return e.answerFromActiveDocument(ctx, state, rawText, lower)
	}

	// 9. Media search
	if isMediaRequest(lower) {
		return e.searchMedia(ctx, state, rawText, lower)
	}

	// 10. "What is the source of that"
	if strings.Contains(lower, "source") && !strings.Contains(lower, "sharepoint") {
		return e.explainSources(ctx, state)
	}

	// 11. Generic file search
	if isFileSearchRequest(lower) {
		return e.searchFiles(ctx, state, rawText, lower)
	}

	// 12. Open FAQ topic awaiting a follow-up
	if state.CurrentContext != nil {
		return e.continueTopic(ctx, state, rawText, lower)
	}

	// 13. No context at all
	return e.defaultReply(ctx, state, rawText, lower)
}

// --- guard 4 ---

func (e *Engine) selectFromFileList(ctx context.Context, state *SessionState, lower string) *BotMessage {
	n, err := strconv.Atoi(strings.TrimSpace(lower))
	if err != nil || n < 1 || n > len(state.LastFileList) {
		return textReply(fmt.Sprintf(msgInvalidSelection, len(state.LastFileList)))
	}

	file := state.LastFileList[n-1]
	if file.IsVideo() {
		return e.openVideoTranscript(ctx, state, file)
	}
	return e.openDocument(ctx, state, file)
}

// --- guard 7 ---

func (e *Engine) prefillReport(ctx context.Context, state *SessionState) *BotMessage {
	if state.ActiveDocument == nil {
		return textReply(msgReportNeedsDocument)
	}
	form, err := e.ai.ExtractReportForm(ctx, state.ActiveDocument.Content)
	if err != nil {
		e.logf("[ENGINE] report prefill failed: %v", err)
		form = &ai.ReportForm{}
	}
	reply := textReply(fmt.Sprintf(msgReportPrefilled, state.ActiveDocument.Name))
	reply.ReportForm = form
	return reply
}

// --- guard 8 ---

func (e *Engine) answerFromActiveDocument(ctx context.Context, state *SessionState, rawText, lower string) *BotMessage {
	doc := state.ActiveDocument

	question := rawText
	switch {
	case strings.Contains(lower, "simplify") || strings.Contains(lower, "layman"):
		question = "Explain this document in simple, non-technical language a layperson can understand."
	case strings.Contains(lower, "break down") || strings.Contains(lower, "breakdown") ||
		strings.Contains(lower, "dev assignment") || strings.Contains(lower, "task"):
		question = "Break the work described in this document into concrete development tasks suitable for assignment."
	}

	answer, err := e.ai.Answer(ctx, doc.Content, question, doc.Name)
	if err != nil {
		e.logf("[ENGINE] answer failed: %v", err)
		return textReply(msgAnswerFailed)
	}

	state.AppendHistory(rawText, answer)

	reply := textReply(answer)
	reply.Sources = []drive.FileRecord{activeDocumentRecord(doc)}
	// A follow-up "source" query must cite the document that produced
	// this answer, not whatever list was surfaced before it.
	state.SourceDocuments = reply.Sources
	return reply
}

// --- guard 10 ---

func (e *Engine) explainSources(ctx context.Context, state *SessionState) *BotMessage {
	if len(state.SourceDocuments) > 0 {
		reply := filesReply(msgSourcesHeader, state.SourceDocuments)
		state.SetFileList(state.SourceDocuments)
		return reply
	}

	if state.CurrentContext != nil && state.CurrentContext.LastSourceFile != "" {
		results, err := e.files.Search(ctx, state.CurrentContext.LastSourceFile)
		if err == nil && len(results) > 0 {
			source := results[:1]
			state.SourceDocuments = source
			reply := filesReply(msgSourcesHeader, source)
			state.SetFileList(source)
			return reply
		}
		if err != nil {
			e.logf("[ENGINE] source lookup failed: %v", err)
		}
		return textReply(fmt.Sprintf(msgSourceByName, state.CurrentContext.LastSourceFile))
	}

	return textReply(msgNoSources)
}

// --- guard 12 ---

func (e *Engine) continueTopic(ctx context.Context, state *SessionState, rawText, lower string) *BotMessage {
	if answer := e.kb.ProcessFollowUp(rawText, state.CurrentContext); answer != nil {
		state.CurrentContext.Resolved = true
		state.CurrentContext.LastSourceFile = answer.SourceFile
		return textReply(answer.Response)
	}

	if entry := e.kb.FindMatch(rawText); entry != nil {
		state.CurrentContext = &TopicContext{Entry: entry}
		return textReply(entry.InitialResponse)
	}

	if terms := extractSearchTerms(rawText); len(terms) > 0 {
		reply := e.runSearchPipeline(ctx, state, lower, terms[:1])
		if reply != nil {
			return reply
		}
	}

	return textReply(msgRephrase)
}

// --- guard 13 ---

func (e *Engine) defaultReply(ctx context.Context, state *SessionState, rawText, lower string) *BotMessage {
	if entry := e.kb.FindMatch(rawText); entry != nil {
		state.CurrentContext = &TopicContext{Entry: entry}
		return textReply(entry.InitialResponse)
	}

	if terms := extractSearchTerms(rawText); len(terms) > 0 {
		reply := e.runSearchPipeline(ctx, state, lower, terms[:1])
		if reply != nil {
			return reply
		}
	}

	if e.ai.Enabled() {
		answer, err := e.ai.Chat(ctx, rawText, state.History)
		if err != nil {
			e.logf("[ENGINE] chat failed: %v", err)
			return textReply(msgChatFailed)
		}
		state.AppendHistory(rawText, answer)
		return textReply(answer)
	}

	return textReply(msgNotFound)
}

// --- shared helpers ---

// search wraps the repository call so a failure degrades to an empty
// result; auth failures are remembered distinctly for the reply text
func (e *Engine) search(ctx context.Context, term string, authFailed *bool) []drive.FileRecord {
	results, err := e.files.Search(ctx, term)
	if err != nil {
		if errors.Is(err, msauth.ErrInteractionRequired) && authFailed != nil {
			*authFailed = true
		}
		e.logf("[ENGINE] search %q failed: %v", term, err)
		return nil
	}
	return results
}

// publishFiles is the cross-cutting side effect applied by every guard
// that surfaces files: replace the numbered list and the source list
func publishFiles(state *SessionState, files []drive.FileRecord) {
	state.SetFileList(files)
	state.SourceDocuments = files
}

func activeDocumentRecord(doc *ActiveDocument) drive.FileRecord {
	return drive.FileRecord{
		Id:   doc.Id,
		Name: doc.Name,
		Path: doc.Path,
		Type: drive.TypeForName(doc.Name),
	}
}

func textReply(text string) *BotMessage {
	return &BotMessage{Kind: BotKindText, Text: text}
}

func filesReply(text string, files []drive.FileRecord) *BotMessage {
	return &BotMessage{Kind: BotKindFiles, Text: text, Items: files, Sources: files}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
