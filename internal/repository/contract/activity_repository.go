package contract

import (
	"context"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindOne(ctx context.Context, userId, id uuid.UUID) (*entity.Activity, error)
	FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Activity, int64, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	// MarkRead and MarkAllRead return the number of rows actually flipped, so
	// callers can report zero effective changes on repeat calls.
	MarkRead(ctx context.Context, userId, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error)
	Delete(ctx context.Context, userId, id uuid.UUID) (int64, error)
	DeleteAllByUser(ctx context.Context, userId uuid.UUID) (int64, error)
}
