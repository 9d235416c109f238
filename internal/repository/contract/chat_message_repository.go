package contract

import (
	"context"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
