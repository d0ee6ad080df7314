package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
