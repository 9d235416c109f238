package contract

import (
	"context"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/repository/specification"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.GeneratedReport) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GeneratedReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedReport, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
