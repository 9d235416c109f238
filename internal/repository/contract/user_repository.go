package contract

import (
	"context"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	ActivateUser(ctx context.Context, userId uuid.UUID) error

	// Provider links for OAuth sign-in and Graph token storage
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
	FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error)
	FindProviderByUserId(ctx context.Context, userId uuid.UUID, providerName string) (*entity.UserProvider, error)
}
