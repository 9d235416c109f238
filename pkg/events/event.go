package events

import "time"

// Event type codes published on the bus. Subjects are derived from
// these, so renaming one is a wire-format change.
const (
	TypeFileUploaded   = "FILE_UPLOADED"
	TypeFileIndexed    = "FILE_INDEXED"
	TypeChatStarted    = "CHAT_STARTED"
	TypeReportCreated  = "REPORT_CREATED"
	TypeUserRegistered = "USER_REGISTERED"
)

// Event is the contract for everything published on the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "FILE_UPLOADED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation the constructors below build on.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewFileUploaded is emitted after a drive upload succeeds; the indexer
// consumes it to keep the per-session recent-uploads fallback warm.
func NewFileUploaded(userId, fileId, fileName, parentId string, size int64) BaseEvent {
	return BaseEvent{
		Type: TypeFileUploaded,
		Data: map[string]interface{}{
			"user_id":   userId,
			"file_id":   fileId,
			"file_name": fileName,
			"parent_id": parentId,
			"size":      size,
		},
		OccurredAt: time.Now(),
	}
}

// NewFileIndexed is emitted once an uploaded file has been folded into
// the session search fallback.
func NewFileIndexed(userId, fileId string) BaseEvent {
	return BaseEvent{
		Type: TypeFileIndexed,
		Data: map[string]interface{}{
			"user_id": userId,
			"file_id": fileId,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatStarted is emitted when a conversation session is created.
func NewChatStarted(userId, sessionId string) BaseEvent {
	return BaseEvent{
		Type: TypeChatStarted,
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}

// NewReportCreated is emitted when an impact analysis document has been
// generated from a change request.
func NewReportCreated(userId, documentName, crNumber string) BaseEvent {
	return BaseEvent{
		Type: TypeReportCreated,
		Data: map[string]interface{}{
			"user_id":       userId,
			"document_name": documentName,
			"cr_number":     crNumber,
		},
		OccurredAt: time.Now(),
	}
}

// NewUserRegistered is emitted after a successful signup; the mailer
// consumes it to send the welcome message.
func NewUserRegistered(userId, email, name string) BaseEvent {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
			"name":    name,
		},
		OccurredAt: time.Now(),
	}
}
