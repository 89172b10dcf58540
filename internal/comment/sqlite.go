package comment

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore keeps comments in the comments table. Row order (seq) is
// insertion order; the id column follows the same count+1 rule as the
// file store and is not unique.
type SQLiteStore struct {
	db  *sql.DB
	now Clock
}

// NewSQLiteStore creates a store on an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// WithClock overrides the clock used to stamp new comments.
func (s *SQLiteStore) WithClock(now Clock) *SQLiteStore {
	s.now = now
	return s
}

// Init verifies the comments table is reachable. The schema itself is
// created by db.Open.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "SELECT 1 FROM comments LIMIT 1"); err != nil {
		return fmt.Errorf("checking comments table: %w", err)
	}
	return nil
}

// Load returns all comments in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (comments []Comment, err error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, text, date FROM comments ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	comments = []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Name, &c.Text, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Save replaces every row with comments in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, comments []Comment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments"); err != nil {
		return fmt.Errorf("clearing comments: %w", err)
	}
	for _, c := range comments {
		if err := insert(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing comments: %w", err)
	}
	return nil
}

// Append counts existing rows and inserts the new comment in one
// transaction.
func (s *SQLiteStore) Append(ctx context.Context, name, text string) (Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Comment{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count); err != nil {
		return Comment{}, fmt.Errorf("counting comments: %w", err)
	}

	c := newComment(count, name, text, s.now)
	if err := insert(ctx, tx, c); err != nil {
		return Comment{}, err
	}

	if err := tx.Commit(); err != nil {
		return Comment{}, fmt.Errorf("committing comment: %w", err)
	}
	return c, nil
}

func insert(ctx context.Context, tx *sql.Tx, c Comment) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO comments (id, name, text, date) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Text, c.Date,
	); err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}
