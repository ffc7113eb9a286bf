package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Danny-Devs/rocket-app/internal/domain"
	"github.com/Danny-Devs/rocket-app/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var _ repository.RustaceanRepository = (*Repository)(nil)

// Find fetches a single record by primary key.
func (r *Repository) Find(ctx context.Context, id int64) (*domain.Rustacean, error) {
	const query = `SELECT id, name, email, created_at FROM rustaceans WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var rec domain.Rustacean
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find rustacean: %w", err)
	}
	return &rec, nil
}

// FindMultiple returns up to limit records, newest first. An empty table is
// not an error; it yields an empty slice.
func (r *Repository) FindMultiple(ctx context.Context, limit int) ([]domain.Rustacean, error) {
	const query = `SELECT id, name, email, created_at FROM rustaceans ORDER BY id DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list rustaceans: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Rustacean, 0)
	for rows.Next() {
		var rec domain.Rustacean
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rustacean: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create inserts a record and returns the persisted row.
//
// RETURNING keeps the insert and the key retrieval in one statement. The
// predecessor of this service inserted and then reloaded max(id), which
// hands back another writer's row when two creates interleave; that pattern
// is only safe under a single writer and is not reproduced here.
func (r *Repository) Create(ctx context.Context, rec domain.NewRustacean) (*domain.Rustacean, error) {
	const query = `INSERT INTO rustaceans (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email, created_at`
	row := r.pool.QueryRow(ctx, query, rec.Name, rec.Email)
	var created domain.Rustacean
	if err := row.Scan(&created.ID, &created.Name, &created.Email, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert rustacean: %w", err)
	}
	return &created, nil
}

// Update overwrites name and email of the row at id and returns the updated
// row. ID and creation timestamp are never touched.
func (r *Repository) Update(ctx context.Context, id int64, rec domain.NewRustacean) (*domain.Rustacean, error) {
	const query = `UPDATE rustaceans SET name = $2, email = $3
		WHERE id = $1
		RETURNING id, name, email, created_at`
	row := r.pool.QueryRow(ctx, query, id, rec.Name, rec.Email)
	var updated domain.Rustacean
	if err := row.Scan(&updated.ID, &updated.Name, &updated.Email, &updated.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update rustacean: %w", err)
	}
	return &updated, nil
}

// Delete removes the row at id. Deleting a missing row is not an error;
// callers that care about existence check it first.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM rustaceans WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete rustacean: %w", err)
	}
	return nil
}
