package mapper

import (
	"time"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Sources:       msg.Sources,
		IsImage:       msg.IsImage,
		IsVideo:       msg.IsVideo,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     msg.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Sources:       msg.Sources,
		IsImage:       msg.IsImage,
		IsVideo:       msg.IsVideo,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

// Report Mappers

func (m *ChatMapper) ReportToEntity(r *model.GeneratedReport) *entity.GeneratedReport {
	if r == nil {
		return nil
	}
	return &entity.GeneratedReport{
		Id:           r.Id,
		UserId:       r.UserId,
		DocumentName: r.DocumentName,
		CRNumber:     r.CRNumber,
		FormData:     r.FormData,
		CreatedAt:    r.CreatedAt,
	}
}

func (m *ChatMapper) ReportToModel(r *entity.GeneratedReport) *model.GeneratedReport {
	if r == nil {
		return nil
	}
	return &model.GeneratedReport{
		Id:           r.Id,
		UserId:       r.UserId,
		DocumentName: r.DocumentName,
		CRNumber:     r.CRNumber,
		FormData:     r.FormData,
		CreatedAt:    r.CreatedAt,
	}
}
