package mapper

import (
	"time"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         entity.UserRole(u.Role),
		Status:       entity.UserStatus(u.Status),
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Status:       string(u.Status),
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(models []*model.User) []*entity.User {
	entities := make([]*entity.User, len(models))
	for i, u := range models {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) ProviderToEntity(p *model.UserProvider) *entity.UserProvider {
	if p == nil {
		return nil
	}
	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}
	return &entity.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		RefreshToken:   p.RefreshToken,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *UserMapper) ProviderToModel(p *entity.UserProvider) *model.UserProvider {
	if p == nil {
		return nil
	}
	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		RefreshToken:   p.RefreshToken,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
