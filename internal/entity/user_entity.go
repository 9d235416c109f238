package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	Status       UserStatus
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProvider links a user to an external identity. For the Microsoft
// provider the stored refresh token also powers silent Graph token
// acquisition for drive access.
type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	RefreshToken   string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
