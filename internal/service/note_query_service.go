package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	searchResultCap  = 50
	recentWindow     = 7 * 24 * time.Hour
)

// INoteQueryService is the read side: listings, search and stats. Results
// are cached per user and invalidated on any of that user's mutations.
type INoteQueryService interface {
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, *serverutils.Pagination, error)
	ListTrash(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error)
	ListPinned(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error)
	ListFavorites(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error)
	ListBookmarks(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error)
	Search(ctx context.Context, userId uuid.UUID, query string, includeDeleted bool) ([]*dto.NoteResponse, error)
	Stats(ctx context.Context, userId uuid.UUID) (*dto.NoteStatsResponse, error)
}

type noteQueryService struct {
	uowFactory unitofwork.RepositoryFactory
	queryCache *memory.QueryCache
}

func NewNoteQueryService(uowFactory unitofwork.RepositoryFactory, queryCache *memory.QueryCache) INoteQueryService {
	return &noteQueryService{
		uowFactory: uowFactory,
		queryCache: queryCache,
	}
}

type cachedNoteList struct {
	Notes      []*dto.NoteResponse
	Pagination *serverutils.Pagination
}

func (s *noteQueryService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	page, limit := normalizePaging(req.Page, req.Limit)
	search := strings.TrimSpace(req.Search)

	filters := []specification.Specification{specification.ActiveOnly{}}
	if req.IncludeDeleted {
		filters = nil
	}
	if search != "" {
		filters = append(filters, specification.NoteSearchQuery{Query: search})
	}

	key := s.queryCache.Key(userId, "list",
		fmt.Sprintf("p=%d", page), fmt.Sprintf("l=%d", limit),
		fmt.Sprintf("q=%s", search), fmt.Sprintf("d=%t", req.IncludeDeleted))
	return s.listNotes(ctx, userId, key, page, limit, filters...)
}

func (s *noteQueryService) ListTrash(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	page, limit = normalizePaging(page, limit)
	key := s.queryCache.Key(userId, "trash", fmt.Sprintf("p=%d", page), fmt.Sprintf("l=%d", limit))
	return s.listNotes(ctx, userId, key, page, limit, specification.TrashedOnly{})
}

func (s *noteQueryService) ListPinned(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	page, limit = normalizePaging(page, limit)
	key := s.queryCache.Key(userId, "pinned", fmt.Sprintf("p=%d", page), fmt.Sprintf("l=%d", limit))
	return s.listNotes(ctx, userId, key, page, limit, specification.ActiveOnly{}, specification.PinnedOnly{})
}

func (s *noteQueryService) ListFavorites(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	page, limit = normalizePaging(page, limit)
	key := s.queryCache.Key(userId, "favorites", fmt.Sprintf("p=%d", page), fmt.Sprintf("l=%d", limit))
	return s.listNotes(ctx, userId, key, page, limit, specification.ActiveOnly{}, specification.FavoritesOnly{})
}

func (s *noteQueryService) ListBookmarks(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	page, limit = normalizePaging(page, limit)
	key := s.queryCache.Key(userId, "bookmarks", fmt.Sprintf("p=%d", page), fmt.Sprintf("l=%d", limit))
	return s.listNotes(ctx, userId, key, page, limit, specification.ActiveOnly{}, specification.BookmarkedOnly{})
}

// listNotes is the shared listing path: count for pagination, fetch the page
// pinned-first, cache the result under the caller's key.
func (s *noteQueryService) listNotes(ctx context.Context, userId uuid.UUID, key string, page, limit int, filters ...specification.Specification) ([]*dto.NoteResponse, *serverutils.Pagination, error) {
	if cached, ok := s.queryCache.Get(key); ok {
		if res, ok := cached.(*cachedNoteList); ok {
			return res.Notes, res.Pagination, nil
		}
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).NoteRepository()

	countSpecs := make([]specification.Specification, 0, len(filters)+1)
	countSpecs = append(countSpecs, specification.OwnedBy{UserID: userId})
	countSpecs = append(countSpecs, filters...)

	total, err := repo.Count(ctx, countSpecs...)
	if err != nil {
		return nil, nil, err
	}

	querySpecs := make([]specification.Specification, 0, len(countSpecs)+2)
	querySpecs = append(querySpecs, countSpecs...)
	querySpecs = append(querySpecs,
		specification.PinnedFirst{},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	notes, err := repo.FindAll(ctx, querySpecs...)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = dto.NewNoteResponse(n)
	}

	pagination := serverutils.NewPagination(page, limit, total)
	s.queryCache.Set(key, &cachedNoteList{Notes: responses, Pagination: pagination})

	return responses, pagination, nil
}

// Search matches against title, content and synopsis, capped to the newest
// matches. Trashed notes are excluded unless includeDeleted is set.
func (s *noteQueryService) Search(ctx context.Context, userId uuid.UUID, query string, includeDeleted bool) ([]*dto.NoteResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, serverutils.NewValidationError("search query must not be empty")
	}

	key := s.queryCache.Key(userId, "search", query, fmt.Sprintf("d=%t", includeDeleted))
	if cached, ok := s.queryCache.Get(key); ok {
		if res, ok := cached.([]*dto.NoteResponse); ok {
			return res, nil
		}
	}

	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
		specification.NoteSearchQuery{Query: query},
		specification.UpdatedDesc{},
		specification.Limit{N: searchResultCap},
	}
	if !includeDeleted {
		specs = append(specs, specification.ActiveOnly{})
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).NoteRepository()
	notes, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = dto.NewNoteResponse(n)
	}
	s.queryCache.Set(key, responses)

	return responses, nil
}

func (s *noteQueryService) Stats(ctx context.Context, userId uuid.UUID) (*dto.NoteStatsResponse, error) {
	key := s.queryCache.Key(userId, "stats")
	if cached, ok := s.queryCache.Get(key); ok {
		if res, ok := cached.(*dto.NoteStatsResponse); ok {
			return res, nil
		}
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).NoteRepository()
	owned := specification.OwnedBy{UserID: userId}

	total, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	active, err := repo.Count(ctx, owned, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}
	deleted, err := repo.Count(ctx, owned, specification.TrashedOnly{})
	if err != nil {
		return nil, err
	}
	recent, err := repo.Count(ctx, owned, specification.ActiveOnly{},
		specification.CreatedSince{Since: time.Now().Add(-recentWindow)})
	if err != nil {
		return nil, err
	}

	stats := &dto.NoteStatsResponse{
		Total:   total,
		Active:  active,
		Deleted: deleted,
		Recent:  recent,
	}
	s.queryCache.Set(key, stats)

	return stats, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
