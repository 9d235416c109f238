package dto

import (
	"time"

	"drive-assistant-be/pkg/assistant"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Sources   []SourceDTO `json:"sources,omitempty"`
	IsImage   bool      `json:"is_image,omitempty"`
	IsVideo   bool      `json:"is_video,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceDTO is the trimmed file card attached to a bot reply
type SourceDTO struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	WebUrl string `json:"web_url,omitempty"`
	Type   string `json:"type"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Message       string    `json:"message" validate:"required,max=4000"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID `json:"chat_session_id"`
	ChatSessionTitle string    `json:"title"`

	// Reply is the engine's tagged response: text, files, media or
	// suggestions. Renderers switch on its kind field.
	Reply *assistant.BotMessage `json:"reply"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}
