// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Store bundles the repositories that share one connection or transaction.
type Store struct {
	Trips       TripRepo
	Itineraries ItineraryRepo
	Items       ItemRepo
	Places      PlaceRepo
}

// NewStore builds a Store whose repositories all run on db.
func NewStore(db db) Store {
	return Store{
		Trips:       NewTripRepo(db),
		Itineraries: NewItineraryRepo(db),
		Items:       NewItemRepo(db),
		Places:      NewPlaceRepo(db),
	}
}
