package service

import (
	"context"
	"fmt"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"

	"github.com/google/uuid"
)

// ActivityDelivery defines how to push real-time feed updates.
// Typically implemented by the WebSocket Hub.
type ActivityDelivery interface {
	Send(userID uuid.UUID, activity *dto.ActivityResponse)
}

// IActivityService serves the read side of the audit trail. Activity rows
// themselves are written by the note service inside its transactions; this
// service only lists, flips read flags, deletes and relays.
type IActivityService interface {
	Start()
	List(ctx context.Context, userId uuid.UUID, req *dto.ListActivitiesRequest) (*dto.ActivityListResponse, *serverutils.Pagination, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MarkReadResponse, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) (*dto.MarkReadResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userId uuid.UUID) (*dto.DeleteAllActivitiesResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewActivityService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery ActivityDelivery,
	log logger.ILogger,
) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus and relaying recorded activities
// to connected clients.
func (s *activityService) Start() {
	if s.subscriber == nil {
		return
	}
	err := s.subscriber.Subscribe("events.>", "activity-feed-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started, listening to events.>", nil)
}

func (s *activityService) handleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != events.TypeActivityRecorded {
		return nil
	}

	payload := event.Payload()
	userId, err := parsePayloadUUID(payload, "user_id")
	if err != nil {
		s.logger.Warn("ActivityService", "Event missing user_id", map[string]interface{}{"error": err.Error()})
		return nil
	}
	activityId, err := parsePayloadUUID(payload, "activity_id")
	if err != nil {
		s.logger.Warn("ActivityService", "Event missing activity_id", map[string]interface{}{"error": err.Error()})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx, userId, activityId)
	if err != nil {
		return err // NATS will retry
	}
	if activity == nil {
		// Deleted before the relay caught up. Nothing to deliver.
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(userId, dto.NewActivityResponse(activity))
	}
	return nil
}

func parsePayloadUUID(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("payload field %q is not a string", key)
	}
	return uuid.Parse(raw)
}

func (s *activityService) List(ctx context.Context, userId uuid.UUID, req *dto.ListActivitiesRequest) (*dto.ActivityListResponse, *serverutils.Pagination, error) {
	page, limit := normalizePaging(req.Page, req.Limit)

	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()
	activities, total, err := repo.FindByUser(ctx, userId, limit, (page-1)*limit, req.UnreadOnly)
	if err != nil {
		return nil, nil, err
	}

	unread, err := repo.CountUnread(ctx, userId)
	if err != nil {
		return nil, nil, err
	}

	res := &dto.ActivityListResponse{
		Activities:  dto.NewActivityResponses(activities),
		UnreadCount: unread,
	}
	return res, serverutils.NewPagination(page, limit, total), nil
}

func (s *activityService) UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()
	return repo.CountUnread(ctx, userId)
}

// MarkRead flips one activity to read. Marking an already-read activity is a
// no-op success; an unknown or foreign id is NotFound.
func (s *activityService) MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MarkReadResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()

	activity, err := repo.FindOne(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, serverutils.NewNotFoundError("activity not found")
	}

	updated, err := repo.MarkRead(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}

func (s *activityService) MarkAllRead(ctx context.Context, userId uuid.UUID) (*dto.MarkReadResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()
	updated, err := repo.MarkAllRead(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}

func (s *activityService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()
	deleted, err := repo.Delete(ctx, userId, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return serverutils.NewNotFoundError("activity not found")
	}
	return nil
}

func (s *activityService) DeleteAll(ctx context.Context, userId uuid.UUID) (*dto.DeleteAllActivitiesResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ActivityRepository()
	deleted, err := repo.DeleteAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteAllActivitiesResponse{Deleted: deleted}, nil
}
