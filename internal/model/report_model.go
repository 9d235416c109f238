package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GeneratedReport struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	DocumentName string         `gorm:"type:varchar(255);not null"`
	CRNumber     string         `gorm:"type:varchar(50);index"`
	FormData     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (GeneratedReport) TableName() string {
	return "generated_reports"
}
