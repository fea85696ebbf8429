package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Every event table carries a globally unique sequence and a UTC timestamp
// in unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		ts_ms         INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		execution_id  TEXT    NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_execution ON llm_request_events (execution_id)`,

	`CREATE TABLE IF NOT EXISTS learning_events (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence           INTEGER NOT NULL UNIQUE,
		ts_ms              INTEGER NOT NULL,
		session_id         TEXT    NOT NULL,
		action             TEXT    NOT NULL,
		topic              TEXT    NOT NULL DEFAULT '',
		original_topic     TEXT    NOT NULL DEFAULT '',
		foundational_index INTEGER NOT NULL DEFAULT -1,
		correct            BOOLEAN NOT NULL DEFAULT 0,
		total_answered     INTEGER NOT NULL DEFAULT 0,
		total_correct      INTEGER NOT NULL DEFAULT 0,
		execution_id       TEXT    NOT NULL DEFAULT '',
		detail             TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_events_session ON learning_events (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_events_action ON learning_events (action)`,

	`CREATE TABLE IF NOT EXISTS feedback_events (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence     INTEGER NOT NULL UNIQUE,
		ts_ms        INTEGER NOT NULL,
		execution_id TEXT    NOT NULL,
		rating       INTEGER NOT NULL,
		comment      TEXT    NOT NULL DEFAULT '',
		delivered    BOOLEAN NOT NULL
	)`,
}

func migrate(db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}
