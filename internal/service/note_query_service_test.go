package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestQueryService(store *fakeStore) (INoteQueryService, *memory.QueryCache) {
	cache := memory.NewQueryCache(time.Minute)
	return NewNoteQueryService(&fakeFactory{store: store}, cache), cache
}

func TestListPagination(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()

	for i := 0; i < 25; i++ {
		seedNote(store, userId, fmt.Sprintf("Note %02d", i), false)
	}

	notes, pagination, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 2, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 10)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, int64(25), pagination.Total)
	assert.Equal(t, 3, pagination.Pages)
	assert.True(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPreviousPage)

	notes, pagination, err = svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 3, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 5)
	assert.False(t, pagination.HasNextPage)
}

func TestListClampsPaging(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()
	seedNote(store, userId, "Only", false)

	_, pagination, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: -4, Limit: 0})
	assert.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 10, pagination.Limit)

	_, pagination, err = svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 5000})
	assert.NoError(t, err)
	assert.Equal(t, 100, pagination.Limit)
}

func TestListPinnedFirstOrdering(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()

	older := seedNote(store, userId, "Older pinned", false)
	store.notes[older.Id].IsPinned = true
	store.notes[older.Id].UpdatedAt = time.Now().Add(-time.Hour)

	seedNote(store, userId, "Recent unpinned", false)

	notes, _, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, "Older pinned", notes[0].Title)
	assert.Equal(t, "Recent unpinned", notes[1].Title)
}

func TestListExcludesTrashByDefault(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()
	seedNote(store, userId, "Visible", false)
	seedNote(store, userId, "Hidden", true)

	notes, _, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "Visible", notes[0].Title)

	notes, _, err = svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10, IncludeDeleted: true})
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestListTrash(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()
	seedNote(store, userId, "Active", false)
	seedNote(store, userId, "Trashed", true)

	notes, pagination, err := svc.ListTrash(context.Background(), userId, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "Trashed", notes[0].Title)
	assert.Equal(t, int64(1), pagination.Total)
}

func TestFlagListings(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()

	fav := seedNote(store, userId, "Favorite", false)
	store.notes[fav.Id].IsFavorite = true

	trashedFav := seedNote(store, userId, "Trashed favorite", true)
	store.notes[trashedFav.Id].IsFavorite = true

	bm := seedNote(store, userId, "Bookmarked", false)
	store.notes[bm.Id].IsBookmarked = true

	notes, _, err := svc.ListFavorites(context.Background(), userId, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, notes, 1) // trashed favorites stay out of the listing
	assert.Equal(t, "Favorite", notes[0].Title)

	notes, _, err = svc.ListBookmarks(context.Background(), userId, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "Bookmarked", notes[0].Title)
}

func TestSearch(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()

	seedNote(store, userId, "Shopping list", false)
	n := seedNote(store, userId, "Meeting", false)
	store.notes[n.Id].Content = "discuss shopping budget"
	seedNote(store, userId, "Shopping trash", true)

	res, err := svc.Search(context.Background(), userId, "shopping", false)
	assert.NoError(t, err)
	assert.Len(t, res, 2) // title match and content match, trash excluded

	res, err = svc.Search(context.Background(), userId, "shopping", true)
	assert.NoError(t, err)
	assert.Len(t, res, 3)

	// Whitespace-only query is a validation error, not an empty result.
	_, err = svc.Search(context.Background(), userId, "   ", false)
	assertAppErrorCode(t, err, 400)

	// No matches is an empty result, not an error.
	res, err = svc.Search(context.Background(), userId, "nonexistent", false)
	assert.NoError(t, err)
	assert.Empty(t, res)
}

func TestStats(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()

	seedNote(store, userId, "Active 1", false)
	seedNote(store, userId, "Active 2", false)
	seedNote(store, userId, "Trashed", true)

	old := seedNote(store, userId, "Old", false)
	store.notes[old.Id].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	stats, err := svc.Stats(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Active)
	assert.Equal(t, int64(1), stats.Deleted)
	assert.Equal(t, int64(2), stats.Recent)
}

func TestListServesFromCacheUntilInvalidated(t *testing.T) {
	store := newFakeStore()
	svc, cache := newTestQueryService(store)
	userId := uuid.New()
	seedNote(store, userId, "First", false)

	notes, _, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 1)

	// A write that bypasses the cache is invisible until invalidation.
	seedNote(store, userId, "Second", false)
	notes, _, err = svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 1)

	cache.InvalidateUser(userId)
	notes, _, err = svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestQueriesAreScopedToOwner(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestQueryService(store)
	userId := uuid.New()
	seedNote(store, uuid.New(), "Foreign", false)

	notes, pagination, err := svc.List(context.Background(), userId, &dto.ListNotesRequest{Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, int64(0), pagination.Total)
}
