package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Transactor runs a unit of work against one itinerary while holding its row lock.
// Mutations of the same itinerary are serialized; a failing fn rolls back every
// write it made.
type Transactor interface {
	LockItinerary(ctx context.Context, itineraryID uuid.UUID, fn func(ctx context.Context, s Store) error) error
}

// beginner is satisfied by *pgxpool.Pool and pgx.Tx. Beginning on a pgx.Tx
// opens a savepoint, which is how the integration tests nest units of work
// inside their rolled-back transaction.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgTransactor struct {
	db beginner
}

// NewTransactor constructs a Transactor that opens transactions on db.
func NewTransactor(db beginner) Transactor {
	return &pgTransactor{db: db}
}

// LockItinerary begins a transaction, locks the itinerary row with
// SELECT ... FOR UPDATE, runs fn and commits. Returns domain.ErrNotFound if the
// itinerary does not exist.
func (t *pgTransactor) LockItinerary(ctx context.Context, itineraryID uuid.UUID, fn func(ctx context.Context, s Store) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Transactor.LockItinerary: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	store := NewStore(tx)
	if err := store.Itineraries.Lock(ctx, itineraryID); err != nil {
		return fmt.Errorf("repo.Transactor.LockItinerary: %w", err)
	}

	if err := fn(ctx, store); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Transactor.LockItinerary: commit: %w", err)
	}
	return nil
}
