package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:           n.Id,
		UserId:       n.UserId,
		Title:        n.Title,
		Content:      n.Content,
		Synopsis:     n.Synopsis,
		IsPinned:     n.IsPinned,
		PinnedAt:     n.PinnedAt,
		IsFavorite:   n.IsFavorite,
		FavoritedAt:  n.FavoritedAt,
		IsBookmarked: n.IsBookmarked,
		BookmarkedAt: n.BookmarkedAt,
		IsDeleted:    n.IsDeleted,
		DeletedAt:    n.DeletedAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:           n.Id,
		UserId:       n.UserId,
		Title:        n.Title,
		Content:      n.Content,
		Synopsis:     n.Synopsis,
		IsPinned:     n.IsPinned,
		PinnedAt:     n.PinnedAt,
		IsFavorite:   n.IsFavorite,
		FavoritedAt:  n.FavoritedAt,
		IsBookmarked: n.IsBookmarked,
		BookmarkedAt: n.BookmarkedAt,
		IsDeleted:    n.IsDeleted,
		DeletedAt:    n.DeletedAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
