package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatMessage is one persisted transcript entry. Sources carries the
// FileRecord list attached to a bot reply as raw JSON.
type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;index"`
	Role          string
	Text          string
	Sources       datatypes.JSON
	IsImage       bool
	IsVideo       bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
