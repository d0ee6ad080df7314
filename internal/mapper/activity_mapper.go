package mapper

import (
	"encoding/json"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}

	return &entity.Activity{
		Id:         a.Id,
		UserId:     a.UserId,
		Type:       a.Type,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetId:   a.TargetId,
		Title:      a.Title,
		Message:    a.Message,
		Data:       json.RawMessage(a.Data),
		IsRead:     a.IsRead,
		ReadAt:     a.ReadAt,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}

	return &model.Activity{
		Id:         a.Id,
		UserId:     a.UserId,
		Type:       a.Type,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetId:   a.TargetId,
		Title:      a.Title,
		Message:    a.Message,
		Data:       datatypes.JSON(a.Data),
		IsRead:     a.IsRead,
		ReadAt:     a.ReadAt,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *ActivityMapper) ToEntities(activities []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(activities))
	for i, a := range activities {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
