package unitofwork

import (
	"context"

	"notekeeper-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// bracket the read-then-write sequences that must be atomic, including the
// pairing of a note mutation with its activity record.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	ActivityRepository() contract.ActivityRepository
}
