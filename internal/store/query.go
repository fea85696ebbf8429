package store

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type sqlxDB interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

var _ sqlxDB = (*sqlx.DB)(nil)

// where accumulates filter clauses for QueryOpts.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, arg)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func sequenceFilter(opts QueryOpts) *where {
	w := &where{}
	if opts.After > 0 {
		w.add("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		w.add("sequence < ?", opts.Before)
	}
	return w
}

func limitClause(opts QueryOpts) (string, []any) {
	if opts.Limit > 0 {
		return " LIMIT ?", []any{opts.Limit}
	}
	return "", nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
