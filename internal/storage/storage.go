// Package storage defines the persistence interface for learning records.
package storage

import (
	"context"
	"errors"

	"github.com/devtrack/learnings/internal/storage/sqlite"
	"github.com/devtrack/learnings/internal/types"
)

// ErrNotFound is returned by GetByID when no record has the given id.
var ErrNotFound = sqlite.ErrNotFound

// LearningStore is the narrow persistence interface the pipeline depends
// on. One backing implementation exists (sqlite).
type LearningStore interface {
	// CreateOne inserts a record and returns it with ID and CreatedAt
	// populated by the store.
	CreateOne(ctx context.Context, record types.LearningRecord) (*types.LearningRecord, error)

	// CreateBatch inserts all records in a single transaction and returns
	// the number inserted. All-or-nothing: a storage error rolls back the
	// whole batch. Empty input returns 0 without touching the database.
	CreateBatch(ctx context.Context, records []types.LearningRecord) (int, error)

	// GetByID returns the record with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*types.LearningRecord, error)

	// GetAll returns records ordered newest created_at first, skipping
	// skip rows and returning at most limit.
	GetAll(ctx context.Context, skip, limit int) ([]types.LearningRecord, error)

	// GetByDate returns records for one YYYY-MM-DD date, newest first.
	GetByDate(ctx context.Context, date string) ([]types.LearningRecord, error)

	// GetByRepo returns records for one repository, newest first.
	GetByRepo(ctx context.Context, repo string) ([]types.LearningRecord, error)

	// DeleteByID removes a record, returning true iff a row existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	Close() error
}

// Open creates the sqlite-backed store at path, initializing the schema
// if absent. Special value ":memory:" opens an in-memory database.
func Open(path string) (LearningStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	return sqlite.New(path)
}
