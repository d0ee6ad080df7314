package service

import (
	"context"
	"sort"
	"strings"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The fakes below back the service tests with an in-memory store. The note
// fake interprets the same specifications the GORM implementation applies,
// and the unit of work snapshots state on Begin so rollbacks are observable.

type fakeStore struct {
	notes      map[uuid.UUID]*entity.Note
	activities []*entity.Activity

	noteCreateErr     error
	noteUpdateErr     error
	noteDeleteErr     error
	activityCreateErr error

	// Runs after every FindOne, letting tests mutate the store between a
	// service's read and its write.
	afterFind func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{notes: make(map[uuid.UUID]*entity.Note)}
}

func (s *fakeStore) put(n *entity.Note) {
	cp := *n
	s.notes[n.Id] = &cp
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := &fakeStore{notes: make(map[uuid.UUID]*entity.Note, len(s.notes))}
	for id, n := range s.notes {
		dup := *n
		cp.notes[id] = &dup
	}
	cp.activities = append([]*entity.Activity(nil), s.activities...)
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.notes = from.notes
	s.activities = from.activities
}

// fakeNoteRepo interprets specifications against the in-memory store.
type fakeNoteRepo struct {
	store *fakeStore
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	if r.store.noteCreateErr != nil {
		return r.store.noteCreateErr
	}
	r.store.put(note)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	if r.store.noteUpdateErr != nil {
		return r.store.noteUpdateErr
	}
	// Mirror the rows-affected check in the real repository.
	if _, ok := r.store.notes[note.Id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.put(note)
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.store.noteDeleteErr != nil {
		return r.store.noteDeleteErr
	}
	delete(r.store.notes, id)
	return nil
}

func (r *fakeNoteRepo) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	if r.store.noteDeleteErr != nil {
		return r.store.noteDeleteErr
	}
	for _, id := range ids {
		delete(r.store.notes, id)
	}
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	matches := r.filter(specs)
	if r.store.afterFind != nil {
		r.store.afterFind()
	}
	if len(matches) == 0 {
		return nil, nil
	}
	cp := *matches[0]
	return &cp, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	matches := r.filter(specs)
	applyOrdering(matches, specs)
	matches = applyWindow(matches, specs)

	out := make([]*entity.Note, len(matches))
	for i, n := range matches {
		cp := *n
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

func (r *fakeNoteRepo) filter(specs []specification.Specification) []*entity.Note {
	var out []*entity.Note
	for _, n := range r.store.notes {
		if noteMatches(n, specs) {
			out = append(out, n)
		}
	}
	// Stable base order so tests are deterministic before explicit ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].Id.String() < out[j].Id.String() })
	return out
}

func noteMatches(n *entity.Note, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if n.Id != sp.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range sp.IDs {
				if n.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.OwnedBy:
			if n.UserId != sp.UserID {
				return false
			}
		case specification.ActiveOnly:
			if n.IsDeleted {
				return false
			}
		case specification.TrashedOnly:
			if !n.IsDeleted {
				return false
			}
		case specification.PinnedOnly:
			if !n.IsPinned {
				return false
			}
		case specification.FavoritesOnly:
			if !n.IsFavorite {
				return false
			}
		case specification.BookmarkedOnly:
			if !n.IsBookmarked {
				return false
			}
		case specification.NoteSearchQuery:
			q := strings.ToLower(sp.Query)
			if !strings.Contains(strings.ToLower(n.Title), q) &&
				!strings.Contains(strings.ToLower(n.Content), q) &&
				!strings.Contains(strings.ToLower(n.Synopsis), q) {
				return false
			}
		case specification.DeletedBefore:
			if n.DeletedAt == nil || !n.DeletedAt.Before(sp.Cutoff) {
				return false
			}
		case specification.CreatedSince:
			if n.CreatedAt.Before(sp.Since) {
				return false
			}
		case specification.ForUpdate:
			// Locking hint, no filtering effect.
		}
	}
	return true
}

func applyOrdering(notes []*entity.Note, specs []specification.Specification) {
	for _, s := range specs {
		switch s.(type) {
		case specification.PinnedFirst:
			sort.SliceStable(notes, func(i, j int) bool {
				if notes[i].IsPinned != notes[j].IsPinned {
					return notes[i].IsPinned
				}
				return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
			})
		case specification.UpdatedDesc:
			sort.SliceStable(notes, func(i, j int) bool {
				return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
			})
		}
	}
}

func applyWindow(notes []*entity.Note, specs []specification.Specification) []*entity.Note {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.Pagination:
			if sp.Offset >= len(notes) {
				return nil
			}
			notes = notes[sp.Offset:]
			if sp.Limit < len(notes) {
				notes = notes[:sp.Limit]
			}
		case specification.Limit:
			if sp.N < len(notes) {
				notes = notes[:sp.N]
			}
		}
	}
	return notes
}

type fakeActivityRepo struct {
	store *fakeStore
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	if r.store.activityCreateErr != nil {
		return r.store.activityCreateErr
	}
	cp := *activity
	r.store.activities = append(r.store.activities, &cp)
	return nil
}

func (r *fakeActivityRepo) FindOne(ctx context.Context, userId, id uuid.UUID) (*entity.Activity, error) {
	for _, a := range r.store.activities {
		if a.Id == id && a.UserId == userId {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeActivityRepo) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Activity, int64, error) {
	var matches []*entity.Activity
	for _, a := range r.store.activities {
		if a.UserId != userId {
			continue
		}
		if unreadOnly && a.IsRead {
			continue
		}
		matches = append(matches, a)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := int64(len(matches))
	if offset >= len(matches) {
		return nil, total, nil
	}
	matches = matches[offset:]
	if limit < len(matches) {
		matches = matches[:limit]
	}

	out := make([]*entity.Activity, len(matches))
	for i, a := range matches {
		cp := *a
		out[i] = &cp
	}
	return out, total, nil
}

func (r *fakeActivityRepo) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.store.activities {
		if a.UserId == userId && !a.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeActivityRepo) MarkRead(ctx context.Context, userId, id uuid.UUID) (int64, error) {
	for _, a := range r.store.activities {
		if a.Id == id && a.UserId == userId && !a.IsRead {
			a.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeActivityRepo) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.store.activities {
		if a.UserId == userId && !a.IsRead {
			a.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeActivityRepo) Delete(ctx context.Context, userId, id uuid.UUID) (int64, error) {
	for i, a := range r.store.activities {
		if a.Id == id && a.UserId == userId {
			r.store.activities = append(r.store.activities[:i], r.store.activities[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeActivityRepo) DeleteAllByUser(ctx context.Context, userId uuid.UUID) (int64, error) {
	var kept []*entity.Activity
	var n int64
	for _, a := range r.store.activities {
		if a.UserId == userId {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.store.activities = kept
	return n, nil
}

// fakeUnitOfWork snapshots the store on Begin and restores it on Rollback so
// atomicity is observable from tests.
type fakeUnitOfWork struct {
	store     *fakeStore
	snapshot  *fakeStore
	began     bool
	committed bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.began = true
	u.snapshot = u.store.snapshot()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.committed = true
	u.snapshot = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.snapshot != nil {
		u.store.restore(u.snapshot)
		u.snapshot = nil
	}
	return nil
}

func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepo{store: u.store}
}

func (u *fakeUnitOfWork) ActivityRepository() contract.ActivityRepository {
	return &fakeActivityRepo{store: u.store}
}

type fakeFactory struct {
	store *fakeStore
	last  *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.last = &fakeUnitOfWork{store: f.store}
	return f.last
}

type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
