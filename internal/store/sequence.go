package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// sequenceCounter hands out one monotonic sequence shared by every event
// table, so events of different kinds can be ordered against each other.
// Per-table autoincrement ids cannot do that.
type sequenceCounter struct {
	mu sync.Mutex
	db *sqlx.DB
}

func newSequenceCounter(db *sqlx.DB) (*sequenceCounter, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// insert takes the next sequence number and runs fn with it inside one
// transaction, so a failed insert does not burn a number.
func (sc *sequenceCounter) insert(ctx context.Context, fn func(tx *sqlx.Tx, seq int64) error) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowxContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq); err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if err := fn(tx, seq); err != nil {
		return err
	}
	return tx.Commit()
}
