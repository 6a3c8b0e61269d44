// Package sqlite backs the learning store with an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/devtrack/learnings/internal/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("learning record not found")

// Store implements the learning store over a single SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (creating if absent) the database at path and initializes
// the schema. ":memory:" opens an in-memory database for tests.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one
	// connection so every query sees the same database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

const insertSQL = `INSERT INTO learnings (date, repo, technology, concept) VALUES (?, ?, ?, ?)`

const selectCols = `id, date, repo, technology, concept, created_at`

// CreateOne inserts one record and returns it with the store-assigned
// id and created_at.
func (s *Store) CreateOne(ctx context.Context, record types.LearningRecord) (*types.LearningRecord, error) {
	res, err := s.db.ExecContext(ctx, insertSQL, record.Date, record.Repo, record.Technology, record.Concept)
	if err != nil {
		return nil, fmt.Errorf("failed to insert learning: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// CreateBatch inserts all records in one transaction. All-or-nothing:
// any insert failure rolls back the batch and returns the error. Empty
// input returns 0 with no database round trip.
func (s *Store) CreateBatch(ctx context.Context, records []types.LearningRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.Date, record.Repo, record.Technology, record.Concept); err != nil {
			return 0, fmt.Errorf("failed to insert learning for %s: %w", record.Repo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return len(records), nil
}

// GetByID returns the record with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*types.LearningRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectCols+` FROM learnings WHERE id = ?`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning %d: %w", id, err)
	}
	return record, nil
}

// GetAll returns records newest first with offset/limit pagination.
func (s *Store) GetAll(ctx context.Context, skip, limit int) ([]types.LearningRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM learnings ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list learnings: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetByDate returns records for one YYYY-MM-DD date, newest first.
func (s *Store) GetByDate(ctx context.Context, date string) ([]types.LearningRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM learnings WHERE date = ? ORDER BY created_at DESC, id DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list learnings for date %s: %w", date, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetByRepo returns records for one repository, newest first.
func (s *Store) GetByRepo(ctx context.Context, repo string) ([]types.LearningRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM learnings WHERE repo = ? ORDER BY created_at DESC, id DESC`, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list learnings for repo %s: %w", repo, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// DeleteByID removes a record, returning true iff a row was deleted.
func (s *Store) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM learnings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete learning %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*types.LearningRecord, error) {
	var r types.LearningRecord
	if err := row.Scan(&r.ID, &r.Date, &r.Repo, &r.Technology, &r.Concept, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]types.LearningRecord, error) {
	var records []types.LearningRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate learning rows: %w", err)
	}
	return records, nil
}
