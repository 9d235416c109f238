package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GeneratedReport records one impact analysis document produced from a
// change request, form data kept as JSON for later re-generation.
type GeneratedReport struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;index"`
	DocumentName string
	CRNumber     string
	FormData     datatypes.JSON
	CreatedAt    time.Time
}
