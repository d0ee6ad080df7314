package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"notekeeper-be/internal/constant"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestNoteService(store *fakeStore) (INoteService, *fakeFactory, *fakePublisher) {
	factory := &fakeFactory{store: store}
	pub := &fakePublisher{}
	svc := NewNoteService(factory, pub, nil, nil, nopLogger{})
	return svc, factory, pub
}

func seedNote(store *fakeStore, userId uuid.UUID, title string, deleted bool) *entity.Note {
	now := time.Now()
	n := &entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if deleted {
		n.IsDeleted = true
		n.DeletedAt = &now
	}
	store.put(n)
	return n
}

func assertAppErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *serverutils.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, code, appErr.Code)
	}
}

func TestCreateNote(t *testing.T) {
	store := newFakeStore()
	svc, factory, pub := newTestNoteService(store)
	userId := uuid.New()

	res, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Title:   "  Groceries  ",
		Content: "milk, eggs",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Groceries", res.Title)
	assert.False(t, res.IsDeleted)
	assert.Len(t, store.notes, 1)

	// Exactly one audit record, written in the same transaction.
	assert.Len(t, store.activities, 1)
	assert.Equal(t, constant.ActivityNoteCreated, store.activities[0].Type)
	assert.Equal(t, userId, store.activities[0].UserId)
	assert.True(t, factory.last.committed)

	// Cache invalidation goes out after commit.
	assert.Len(t, pub.published, 1)
}

func TestCreateNoteRejectsBlankFields(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{Title: "   ", Content: "x"})
	assertAppErrorCode(t, err, 400)

	_, err = svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{Title: "x", Content: " "})
	assertAppErrorCode(t, err, 400)

	assert.Empty(t, store.notes)
	assert.Empty(t, store.activities)
}

func TestUpdateNote(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Draft", false)

	title := "Final"
	res, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "Final", res.Title)
	assert.Equal(t, "content of Draft", res.Content) // untouched field survives
	assert.True(t, res.UpdatedAt.After(note.UpdatedAt))

	assert.Len(t, store.activities, 1)
	assert.Equal(t, constant.ActivityNoteUpdated, store.activities[0].Type)

	var payload dto.NoteUpdatedPayload
	assert.NoError(t, json.Unmarshal(store.activities[0].Data, &payload))
	assert.Equal(t, []string{"title"}, payload.ChangedFields)
}

func TestUpdateTrashedNoteNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Trashed", true)

	title := "New"
	_, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
	assertAppErrorCode(t, err, 404)
}

func TestUpdateForeignNoteNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	note := seedNote(store, uuid.New(), "Someone else's", false)

	title := "Hijack"
	_, err := svc.Update(context.Background(), uuid.New(), &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
	assertAppErrorCode(t, err, 404)
}

func TestUpdateVanishedNoteNotFound(t *testing.T) {
	store := newFakeStore()
	svc, factory, pub := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Doomed", false)

	// Another request permanently deletes the note between this update's
	// read and its write. The zero-row write must surface as NotFound, not
	// as a phantom success with a note_updated record.
	store.afterFind = func() {
		delete(store.notes, note.Id)
		store.afterFind = nil
	}

	title := "Too late"
	_, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
	assertAppErrorCode(t, err, 404)

	assert.Empty(t, store.activities)
	assert.False(t, factory.last.committed)
	assert.Empty(t, pub.published)
}

func TestTogglePinVanishedNoteNotFound(t *testing.T) {
	store := newFakeStore()
	svc, factory, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Doomed", false)

	store.afterFind = func() {
		delete(store.notes, note.Id)
		store.afterFind = nil
	}

	_, err := svc.TogglePin(context.Background(), userId, note.Id, true)
	assertAppErrorCode(t, err, 404)

	assert.Empty(t, store.activities)
	assert.False(t, factory.last.committed)
}

func TestMutationInvalidatesCachedListings(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{store: store}
	cache := memory.NewQueryCache(time.Minute)
	notes := NewNoteService(factory, nil, nil, cache, nopLogger{})
	queries := NewNoteQueryService(factory, cache)
	userId := uuid.New()
	note := seedNote(store, userId, "Before", false)

	listed, _, err := queries.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, "Before", listed[0].Title)

	title := "After"
	_, err = notes.Update(context.Background(), userId, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
	assert.NoError(t, err)

	// The listing issued right after the mutation response must already see
	// the change, without waiting for the invalidation consumer.
	listed, _, err = queries.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, "After", listed[0].Title)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Ephemeral", false)

	assert.NoError(t, svc.SoftDelete(context.Background(), userId, note.Id))

	stored := store.notes[note.Id]
	assert.True(t, stored.IsDeleted)
	assert.NotNil(t, stored.DeletedAt)

	// A trashed note cannot be trashed again.
	err := svc.SoftDelete(context.Background(), userId, note.Id)
	assertAppErrorCode(t, err, 404)

	res, err := svc.Restore(context.Background(), userId, note.Id)
	assert.NoError(t, err)
	assert.False(t, res.IsDeleted)
	assert.Nil(t, res.DeletedAt)

	// An active note cannot be restored.
	_, err = svc.Restore(context.Background(), userId, note.Id)
	assertAppErrorCode(t, err, 404)

	types := []string{store.activities[0].Type, store.activities[1].Type}
	assert.Equal(t, []string{constant.ActivityNoteDeleted, constant.ActivityNoteRestored}, types)
}

func TestDeletePermanentlyFromAnyState(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	active := seedNote(store, userId, "Active", false)
	trashed := seedNote(store, userId, "Trashed", true)

	assert.NoError(t, svc.DeletePermanently(context.Background(), userId, active.Id))
	assert.NoError(t, svc.DeletePermanently(context.Background(), userId, trashed.Id))
	assert.Empty(t, store.notes)

	// The audit trail outlives the notes.
	assert.Len(t, store.activities, 2)
	var fromTrash dto.NotePurgedPayload
	assert.NoError(t, json.Unmarshal(store.activities[1].Data, &fromTrash))
	assert.True(t, fromTrash.WasDeleted)

	err := svc.DeletePermanently(context.Background(), userId, active.Id)
	assertAppErrorCode(t, err, 404)
}

func TestEmptyTrash(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	seedNote(store, userId, "Trash 1", true)
	seedNote(store, userId, "Trash 2", true)
	seedNote(store, userId, "Trash 3", true)
	survivor := seedNote(store, userId, "Keeper", false)
	foreign := seedNote(store, uuid.New(), "Foreign trash", true)

	res, err := svc.EmptyTrash(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Len(t, res.NoteIds, 3)

	assert.Contains(t, store.notes, survivor.Id)
	assert.Contains(t, store.notes, foreign.Id)
	assert.Len(t, store.notes, 2)

	// One activity for the whole purge.
	assert.Len(t, store.activities, 1)
	assert.Equal(t, constant.ActivityTrashEmptied, store.activities[0].Type)
	assert.Equal(t, constant.TargetTrash, store.activities[0].TargetType)

	// Emptying an empty trash succeeds without recording anything.
	res, err = svc.EmptyTrash(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Len(t, store.activities, 1)
}

func TestTogglePinIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Pinnable", false)

	res, err := svc.TogglePin(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)
	assert.True(t, res.IsPinned)
	assert.NotNil(t, res.PinnedAt)
	firstUpdate := res.UpdatedAt

	// Same desired value again: still success, updatedAt still advances.
	res, err = svc.TogglePin(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)
	assert.True(t, res.IsPinned)
	assert.True(t, res.UpdatedAt.After(firstUpdate) || res.UpdatedAt.Equal(firstUpdate))

	res, err = svc.TogglePin(context.Background(), userId, note.Id, false)
	assert.NoError(t, err)
	assert.False(t, res.IsPinned)
	assert.Nil(t, res.PinnedAt)

	assert.Len(t, store.activities, 3)
	assert.Equal(t, constant.ActivityNotePinned, store.activities[0].Type)
	assert.Equal(t, constant.ActivityNoteUnpinned, store.activities[2].Type)
}

func TestFlagsAreIndependent(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Flagged", false)

	_, err := svc.TogglePin(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)
	_, err = svc.ToggleFavorite(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)
	res, err := svc.ToggleBookmark(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)

	assert.True(t, res.IsPinned)
	assert.True(t, res.IsFavorite)
	assert.True(t, res.Bookmarked)

	// Clearing one flag leaves the others.
	res, err = svc.ToggleFavorite(context.Background(), userId, note.Id, false)
	assert.NoError(t, err)
	assert.True(t, res.IsPinned)
	assert.False(t, res.IsFavorite)
	assert.True(t, res.Bookmarked)
}

func TestToggleWorksOnTrashedNote(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Trashed", true)

	res, err := svc.ToggleFavorite(context.Background(), userId, note.Id, true)
	assert.NoError(t, err)
	assert.True(t, res.IsFavorite)
	assert.True(t, res.IsDeleted)
}

func TestMutationAndAuditAreAtomic(t *testing.T) {
	store := newFakeStore()
	svc, factory, pub := newTestNoteService(store)
	userId := uuid.New()
	note := seedNote(store, userId, "Original", false)

	store.activityCreateErr = errors.New("audit write failed")

	title := "Changed"
	_, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
	assert.Error(t, err)

	// The note mutation rolled back with the failed audit write.
	assert.Equal(t, "Original", store.notes[note.Id].Title)
	assert.Empty(t, store.activities)
	assert.False(t, factory.last.committed)
	assert.Empty(t, pub.published)
}

func TestPurgeExpired(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestNoteService(store)
	userA := uuid.New()
	userB := uuid.New()

	old := seedNote(store, userA, "Old trash", true)
	stale := time.Now().Add(-40 * 24 * time.Hour)
	store.notes[old.Id].DeletedAt = &stale

	oldB := seedNote(store, userB, "Old trash B", true)
	store.notes[oldB.Id].DeletedAt = &stale

	fresh := seedNote(store, userA, "Fresh trash", true)

	purged, err := svc.PurgeExpired(context.Background(), 30*24*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 2, purged)

	assert.NotContains(t, store.notes, old.Id)
	assert.NotContains(t, store.notes, oldB.Id)
	assert.Contains(t, store.notes, fresh.Id)

	// One trash_emptied activity per affected owner.
	assert.Len(t, store.activities, 2)
	owners := map[uuid.UUID]bool{}
	for _, a := range store.activities {
		assert.Equal(t, constant.ActivityTrashEmptied, a.Type)
		owners[a.UserId] = true
	}
	assert.True(t, owners[userA])
	assert.True(t, owners[userB])
}
