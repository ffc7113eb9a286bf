package rustacean

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"github.com/Danny-Devs/rocket-app/internal/domain"
	"github.com/Danny-Devs/rocket-app/internal/repository"
)

// ErrInvalidInput marks payloads that fail validation. Handlers translate it
// into an unprocessable-entity response.
var ErrInvalidInput = errors.New("invalid input")

var (
	errNameRequired  = fmt.Errorf("%w: name is required", ErrInvalidInput)
	errEmailRequired = fmt.Errorf("%w: email is required", ErrInvalidInput)
)

const defaultRowCap = 1000

// Service handles roster record workflows.
type Service struct {
	repo   repository.RustaceanRepository
	logger *slog.Logger
	rowCap int
}

// New constructs a Service. rowCap bounds list sizes; values outside
// (0, defaultRowCap] fall back to the default.
func New(repo repository.RustaceanRepository, logger *slog.Logger, rowCap int) Service {
	if rowCap <= 0 || rowCap > defaultRowCap {
		rowCap = defaultRowCap
	}
	return Service{repo: repo, logger: logger, rowCap: rowCap}
}

// List returns up to limit records, newest first. A non-positive limit means
// "as many as allowed"; the configured cap always applies.
func (s Service) List(ctx context.Context, limit int) ([]domain.Rustacean, error) {
	if limit <= 0 || limit > s.rowCap {
		limit = s.rowCap
	}
	return s.repo.FindMultiple(ctx, limit)
}

// Get returns the record at id or repository.ErrNotFound.
func (s Service) Get(ctx context.Context, id int64) (*domain.Rustacean, error) {
	return s.repo.Find(ctx, id)
}

// Create validates and persists a new record, returning the stored row with
// its database-assigned id and creation timestamp.
func (s Service) Create(ctx context.Context, input domain.NewRustacean) (*domain.Rustacean, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("rustacean created", "id", created.ID)
	return created, nil
}

// Update overwrites name and email of an existing record. The record must
// exist before the mutation is attempted; a missing id short-circuits with
// repository.ErrNotFound and the repository update is never invoked.
func (s Service) Update(ctx context.Context, id int64, input domain.NewRustacean) (*domain.Rustacean, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}
	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("rustacean updated", "id", id)
	return updated, nil
}

// Delete removes an existing record. As with Update, existence is checked
// first so that deleting an unknown id reports not-found rather than
// silently succeeding.
func (s Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("rustacean deleted", "id", id)
	return nil
}

func validate(input *domain.NewRustacean) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return errNameRequired
	}
	if input.Email == "" {
		return errEmailRequired
	}
	return nil
}
