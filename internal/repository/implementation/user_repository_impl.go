package implementation

import (
	"context"
	"errors"

	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/mapper"
	"drive-assistant-be/internal/model"
	"drive-assistant-be/internal/repository/contract"
	"drive-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var models []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Update("avatar_url", avatarURL).Error
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Update("password_hash", hash).Error
}

func (r *UserRepositoryImpl) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Update("status", string(entity.UserStatusActive)).Error
}

// SaveUserProvider upserts on (user_id, provider_name) so repeated
// sign-ins refresh the stored token instead of duplicating rows
func (r *UserRepositoryImpl) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	m := r.mapper.ProviderToModel(provider)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider_user_id", "avatar_url", "refresh_token", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*provider = *r.mapper.ProviderToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	var m model.UserProvider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProviderToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindProviderByUserId(ctx context.Context, userId uuid.UUID, providerName string) (*entity.UserProvider, error) {
	var m model.UserProvider
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_name = ?", userId, providerName).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProviderToEntity(&m), nil
}
