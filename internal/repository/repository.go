package repository

import (
	"context"

	"github.com/Danny-Devs/rocket-app/internal/domain"
)

// RustaceanRepository is the persistence contract for roster records.
//
// Every operation runs against one connection from the pool, synchronously,
// without internal retries. Find and Update return ErrNotFound when no row
// matches; any other failure is a storage error. Delete is idempotent at
// this layer — existence is the caller's concern.
type RustaceanRepository interface {
	Find(ctx context.Context, id int64) (*domain.Rustacean, error)
	FindMultiple(ctx context.Context, limit int) ([]domain.Rustacean, error)
	Create(ctx context.Context, rec domain.NewRustacean) (*domain.Rustacean, error)
	Update(ctx context.Context, id int64, rec domain.NewRustacean) (*domain.Rustacean, error)
	Delete(ctx context.Context, id int64) error
}
