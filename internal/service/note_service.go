package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"notekeeper-be/internal/constant"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// INoteService owns the note lifecycle (create/update/trash/restore/purge)
// and the organizational flags. Every mutation writes exactly one activity
// record in the same transaction as the note change.
type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	SoftDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	DeletePermanently(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	EmptyTrash(ctx context.Context, userId uuid.UUID) (*dto.EmptyTrashResponse, error)
	TogglePin(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error)
	ToggleFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error)
	ToggleBookmark(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error)
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	queryCache       *memory.QueryCache
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	queryCache *memory.QueryCache,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		queryCache:       queryCache,
		logger:           log,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, serverutils.NewValidationError("title must not be empty")
	}
	if content == "" {
		return nil, serverutils.NewValidationError("content must not be empty")
	}

	now := time.Now()
	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Content:   content,
		Synopsis:  strings.TrimSpace(req.Synopsis),
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	activity := newActivity(userId, constant.ActivityNoteCreated, constant.ActionCreated, &note.Id,
		"Note created",
		fmt.Sprintf("Note %q was created", note.Title),
		dto.NoteCreatedPayload{Note: preview(&note)},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, userId, activity)

	return dto.NewNoteResponse(&note), nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("note not found")
	}

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("note not found")
	}

	var changed []string
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, serverutils.NewValidationError("title must not be empty")
		}
		if title != note.Title {
			note.Title = title
			changed = append(changed, "title")
		}
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, serverutils.NewValidationError("content must not be empty")
		}
		if content != note.Content {
			note.Content = content
			changed = append(changed, "content")
		}
	}
	if req.Synopsis != nil {
		synopsis := strings.TrimSpace(*req.Synopsis)
		if synopsis != note.Synopsis {
			note.Synopsis = synopsis
			changed = append(changed, "synopsis")
		}
	}

	note.UpdatedAt = time.Now()
	if err := writeNote(ctx, uow, note); err != nil {
		return nil, err
	}

	activity := newActivity(userId, constant.ActivityNoteUpdated, constant.ActionUpdated, &note.Id,
		"Note updated",
		fmt.Sprintf("Note %q was updated", note.Title),
		dto.NoteUpdatedPayload{Note: preview(note), ChangedFields: changed},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, userId, activity)

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) SoftDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Only an active note can move to the trash.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.ForUpdate{},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return serverutils.NewNotFoundError("note not found")
	}

	now := time.Now()
	note.IsDeleted = true
	note.DeletedAt = &now
	note.UpdatedAt = now

	if err := writeNote(ctx, uow, note); err != nil {
		return err
	}

	activity := newActivity(userId, constant.ActivityNoteDeleted, constant.ActionDeleted, &note.Id,
		"Note moved to trash",
		fmt.Sprintf("Note %q was moved to trash", note.Title),
		dto.NoteDeletedPayload{Note: preview(note)},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	s.afterCommit(ctx, userId, activity)

	return nil
}

func (s *noteService) Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Only a trashed note can be restored.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
		specification.TrashedOnly{},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("note not found in trash")
	}

	note.IsDeleted = false
	note.DeletedAt = nil
	note.UpdatedAt = time.Now()

	if err := writeNote(ctx, uow, note); err != nil {
		return nil, err
	}

	activity := newActivity(userId, constant.ActivityNoteRestored, constant.ActionRestored, &note.Id,
		"Note restored",
		fmt.Sprintf("Note %q was restored from trash", note.Title),
		dto.NoteRestoredPayload{Note: preview(note)},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, userId, activity)

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) DeletePermanently(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Legal from any lifecycle state, active or trashed.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return serverutils.NewNotFoundError("note not found")
	}

	// The audit record is written before the physical delete so the trail
	// survives even if the delete step fails; the transaction keeps the pair
	// all-or-nothing.
	activity := newActivity(userId, constant.ActivityNotePurged, constant.ActionPurged, &note.Id,
		"Note permanently deleted",
		fmt.Sprintf("Note %q was permanently deleted", note.Title),
		dto.NotePurgedPayload{Note: preview(note), WasDeleted: note.IsDeleted},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	s.afterCommit(ctx, userId, activity)

	return nil
}

func (s *noteService) EmptyTrash(ctx context.Context, userId uuid.UUID) (*dto.EmptyTrashResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	trashed, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.TrashedOnly{},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(trashed))
	for i, n := range trashed {
		ids[i] = n.Id
	}

	res := &dto.EmptyTrashResponse{Count: len(ids), NoteIds: ids}
	if len(ids) == 0 {
		// Nothing was mutated, so no activity is recorded.
		return res, uow.Commit()
	}

	// One activity for the whole purge, not one per note.
	activity := newActivity(userId, constant.ActivityTrashEmptied, constant.ActionEmptied, nil,
		"Trash emptied",
		fmt.Sprintf("%d note(s) were permanently deleted from trash", len(ids)),
		dto.TrashEmptiedPayload{Count: len(ids), NoteIds: ids},
	)
	activity.TargetType = constant.TargetTrash
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.NoteRepository().DeleteByIds(ctx, ids); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, userId, activity)

	return res, nil
}

func (s *noteService) TogglePin(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error) {
	return s.toggleFlag(ctx, userId, id, flagPin, desired)
}

func (s *noteService) ToggleFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error) {
	return s.toggleFlag(ctx, userId, id, flagFavorite, desired)
}

func (s *noteService) ToggleBookmark(ctx context.Context, userId uuid.UUID, id uuid.UUID, desired bool) (*dto.NoteResponse, error) {
	return s.toggleFlag(ctx, userId, id, flagBookmark, desired)
}

type noteFlag string

const (
	flagPin      noteFlag = "pin"
	flagFavorite noteFlag = "favorite"
	flagBookmark noteFlag = "bookmark"
)

// toggleFlag sets one organizational flag to the desired value. The operation
// is idempotent: repeating it with the same value still succeeds and still
// advances updatedAt. Each flag is independent of the others and of the
// lifecycle state.
func (s *noteService) toggleFlag(ctx context.Context, userId uuid.UUID, id uuid.UUID, flag noteFlag, desired bool) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("note not found")
	}

	now := time.Now()
	stamp := &now
	if !desired {
		stamp = nil
	}

	var previous bool
	var activityType, action string
	switch flag {
	case flagPin:
		previous = note.IsPinned
		note.IsPinned = desired
		note.PinnedAt = stamp
		activityType, action = constant.ActivityNotePinned, constant.ActionPinned
		if !desired {
			activityType, action = constant.ActivityNoteUnpinned, constant.ActionUnpinned
		}
	case flagFavorite:
		previous = note.IsFavorite
		note.IsFavorite = desired
		note.FavoritedAt = stamp
		activityType, action = constant.ActivityNoteFavorited, constant.ActionFavorited
		if !desired {
			activityType, action = constant.ActivityNoteUnfavorited, constant.ActionUnfavorited
		}
	case flagBookmark:
		previous = note.IsBookmarked
		note.IsBookmarked = desired
		note.BookmarkedAt = stamp
		activityType, action = constant.ActivityNoteBookmarked, constant.ActionBookmarked
		if !desired {
			activityType, action = constant.ActivityNoteUnbookmark, constant.ActionUnbookmarked
		}
	}

	note.UpdatedAt = now
	if err := writeNote(ctx, uow, note); err != nil {
		return nil, err
	}

	activity := newActivity(userId, activityType, action, &note.Id,
		fmt.Sprintf("Note %s", action),
		fmt.Sprintf("Note %q was %s", note.Title, action),
		dto.FlagToggledPayload{Note: preview(note), Flag: string(flag), Previous: previous, Current: desired},
	)
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, userId, activity)

	return dto.NewNoteResponse(note), nil
}

// PurgeExpired permanently deletes trashed notes older than the retention
// window, one transaction per owner with a single trash_emptied activity
// each. Called by the trash sweeper.
func (s *noteService) PurgeExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now().Add(-olderThan)

	expired, err := uow.NoteRepository().FindAll(ctx,
		specification.TrashedOnly{},
		specification.DeletedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	byUser := make(map[uuid.UUID][]uuid.UUID)
	for _, n := range expired {
		byUser[n.UserId] = append(byUser[n.UserId], n.Id)
	}

	purged := 0
	for userId, ids := range byUser {
		if err := s.purgeForUser(ctx, userId, ids); err != nil {
			s.logger.Error("NoteService", "Failed to purge expired trash for user",
				map[string]interface{}{"user_id": userId, "error": err.Error()})
			continue
		}
		purged += len(ids)
	}

	return purged, nil
}

func (s *noteService) purgeForUser(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	activity := newActivity(userId, constant.ActivityTrashEmptied, constant.ActionEmptied, nil,
		"Trash emptied",
		fmt.Sprintf("%d expired note(s) were permanently deleted from trash", len(ids)),
		dto.TrashEmptiedPayload{Count: len(ids), NoteIds: ids},
	)
	activity.TargetType = constant.TargetTrash
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return err
	}

	if err := uow.NoteRepository().DeleteByIds(ctx, ids); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	s.afterCommit(ctx, userId, activity)

	return nil
}

// writeNote persists a mutated note. A zero-row update means the note was
// deleted out from under us between read and write, so the caller sees the
// same NotFound a late read would have.
func writeNote(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.Note) error {
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return serverutils.NewNotFoundError("note not found")
		}
		return err
	}
	return nil
}

func preview(n *entity.Note) dto.NotePreview {
	return dto.NotePreview{Id: n.Id, Title: n.Title}
}

func newActivity(userId uuid.UUID, activityType, action string, targetId *uuid.UUID, title, message string, payload interface{}) *entity.Activity {
	data, _ := json.Marshal(payload)
	return &entity.Activity{
		Id:         uuid.New(),
		UserId:     userId,
		Type:       activityType,
		Action:     action,
		TargetType: constant.TargetNote,
		TargetId:   targetId,
		Title:      title,
		Message:    message,
		Data:       data,
		CreatedAt:  time.Now(),
	}
}

// afterCommit runs the best-effort side effects that must never be part of
// the transaction: read-model invalidation and the realtime feed event.
func (s *noteService) afterCommit(ctx context.Context, userId uuid.UUID, activity *entity.Activity) {
	// Drop the local read model synchronously so the very next listing sees
	// the mutation. The bus message below covers other consumers.
	if s.queryCache != nil {
		s.queryCache.InvalidateUser(userId)
	}

	if s.publisherService != nil {
		payload, _ := json.Marshal(dto.InvalidateCacheMessage{UserId: userId})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("NoteService", "Failed to publish cache invalidation",
				map[string]interface{}{"user_id": userId, "error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewActivityRecorded(userId, activity.Id, activity.Type, activity.Title, activity.Message)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("NoteService", "Failed to publish activity event",
				map[string]interface{}{"user_id": userId, "error": err.Error()})
		}
	}
}
