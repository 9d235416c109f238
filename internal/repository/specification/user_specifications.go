package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

// ByProvider matches one external identity link
type ByProvider struct {
	ProviderName   string
	ProviderUserId string
}

func (s ByProvider) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_name = ? AND provider_user_id = ?", s.ProviderName, s.ProviderUserId)
}
