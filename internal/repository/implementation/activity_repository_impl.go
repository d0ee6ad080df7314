package implementation

import (
	"context"
	"errors"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/mapper"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *entity.Activity) error {
	m := r.mapper.ToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) FindOne(ctx context.Context, userId, id uuid.UUID) (*entity.Activity, error) {
	var m model.Activity
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ActivityRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Activity, int64, error) {
	var models []*model.Activity
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Activity{}).Where("user_id = ?", userId)
	if unreadOnly {
		db = db.Scopes(scope.UnreadOnly)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(scope.OrderByCreatedDesc).
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return r.mapper.ToEntities(models), total, nil
}

func (r *ActivityRepositoryImpl) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("user_id = ?", userId).
		Scopes(scope.UnreadOnly).
		Count(&count).Error
	return count, err
}

func (r *ActivityRepositoryImpl) MarkRead(ctx context.Context, userId, id uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userId, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *ActivityRepositoryImpl) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *ActivityRepositoryImpl) Delete(ctx context.Context, userId, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.Activity{})
	return result.RowsAffected, result.Error
}

func (r *ActivityRepositoryImpl) DeleteAllByUser(ctx context.Context, userId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.Activity{})
	return result.RowsAffected, result.Error
}
