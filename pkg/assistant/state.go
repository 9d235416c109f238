package assistant

import (
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/llm"
)

// MessageType distinguishes the two sides of the transcript
type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// BotKind tags the shape of a bot reply so renderers switch on it
// instead of probing optional fields
type BotKind string

const (
	BotKindText        BotKind = "text"
	BotKindFiles       BotKind = "files"
	BotKindMedia       BotKind = "media"
	BotKindSuggestions BotKind = "suggestions"
)

// BotMessage is one assistant reply
type BotMessage struct {
	Kind        BotKind            `json:"kind"`
	Text        string             `json:"text"`
	Items       []drive.FileRecord `json:"items,omitempty"`
	Sources     []drive.FileRecord `json:"sources,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
	IsImage     bool               `json:"is_image,omitempty"`
	IsVideo     bool               `json:"is_video,omitempty"`

	// ReportForm carries the pre-filled impact analysis form when the
	// user asked for report generation
	ReportForm interface{} `json:"report_form,omitempty"`
}

// ChatMessage is one transcript entry, append-only, insertion order is
// display order
type ChatMessage struct {
	Type    MessageType        `json:"type"`
	Text    string             `json:"text"`
	Sources []drive.FileRecord `json:"sources,omitempty"`
	IsImage bool               `json:"is_image,omitempty"`
	IsVideo bool               `json:"is_video,omitempty"`
}

// ActiveDocument is the document currently open for follow-up
// question answering
type ActiveDocument struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Path    string `json:"path"`
	IsVideo bool   `json:"is_video"`
}

// TopicContext is an open multi-turn FAQ topic awaiting a follow-up
type TopicContext struct {
	Entry          *KnowledgeEntry `json:"entry"`
	LastSourceFile string          `json:"last_source_file,omitempty"`
	Resolved       bool            `json:"resolved"`
}

const (
	maxRecentUploads = 20
	historyWindow    = 6
)

// SessionState is the per-conversation mutable state, owned exclusively
// by the Engine. One engine invocation is in flight per session at a
// time; nothing here is locked.
type SessionState struct {
	Id     string `json:"id"`
	UserId string `json:"user_id"`

	Messages []ChatMessage `json:"messages"`

	CurrentContext  *TopicContext      `json:"current_context,omitempty"`
	SourceDocuments []drive.FileRecord `json:"source_documents,omitempty"`
	ActiveDocument  *ActiveDocument    `json:"active_document,omitempty"`

	// At most one of LastFileList / LastSuggestedQuestions is active
	// for number selection: fresh file lists clear the questions and
	// fresh question lists clear the file list.
	LastFileList           []drive.FileRecord `json:"last_file_list,omitempty"`
	LastSearchResults      []drive.FileRecord `json:"last_search_results,omitempty"`
	LastSuggestedQuestions []string           `json:"last_suggested_questions,omitempty"`

	// RecentUploads is the bounded upload fallback consulted when the
	// backend search index lags behind a fresh upload
	RecentUploads []drive.FileRecord `json:"recent_uploads,omitempty"`

	History []llm.Message `json:"history,omitempty"`
}

// SetFileList makes files the active numbered list, displacing any
// pending suggested questions
func (s *SessionState) SetFileList(files []drive.FileRecord) {
	s.LastFileList = files
	s.LastSuggestedQuestions = nil
}

// SetSuggestedQuestions makes questions the active numbered list,
// displacing any pending file list
func (s *SessionState) SetSuggestedQuestions(questions []string) {
	s.LastSuggestedQuestions = questions
	s.LastFileList = nil
}

// AddRecentUpload records an upload at the front of the bounded list
func (s *SessionState) AddRecentUpload(file drive.FileRecord) {
	uploads := make([]drive.FileRecord, 0, len(s.RecentUploads)+1)
	uploads = append(uploads, file)
	for _, u := range s.RecentUploads {
		if u.Id == file.Id {
			continue
		}
		uploads = append(uploads, u)
	}
	if len(uploads) > maxRecentUploads {
		uploads = uploads[:maxRecentUploads]
	}
	s.RecentUploads = uploads
}

// AppendHistory adds one conversational turn, keeping the last
// historyWindow entries before the append
func (s *SessionState) AppendHistory(userText, botText string) {
	if len(s.History) > historyWindow {
		s.History = s.History[len(s.History)-historyWindow:]
	}
	s.History = append(s.History,
		llm.Message{Role: "user", Content: userText},
		llm.Message{Role: "assistant", Content: botText},
	)
}
