package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role          string         `gorm:"type:varchar(50);not null"`
	Text          string         `gorm:"type:text;not null"`
	Sources       datatypes.JSON `gorm:"type:jsonb"`
	IsImage       bool           `gorm:"default:false"`
	IsVideo       bool           `gorm:"default:false"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
