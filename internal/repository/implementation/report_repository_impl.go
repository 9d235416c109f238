package implementation

import (
	"context"
	"errors"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/mapper"
	"drive-assistant-be/internal/model"
	"drive-assistant-be/internal/repository/contract"
	"drive-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *entity.GeneratedReport) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *ReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GeneratedReport, error) {
	var m model.GeneratedReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReportToEntity(&m), nil
}

func (r *ReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedReport, error) {
	var models []*model.GeneratedReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GeneratedReport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ReportToEntity(m)
	}
	return entities, nil
}

func (r *ReportRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GeneratedReport{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
