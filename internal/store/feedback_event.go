package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type feedbackEventRow struct {
	ID          int64  `db:"id"`
	Sequence    int64  `db:"sequence"`
	TsMs        int64  `db:"ts_ms"`
	ExecutionID string `db:"execution_id"`
	Rating      int    `db:"rating"`
	Comment     string `db:"comment"`
	Delivered   bool   `db:"delivered"`
}

func (r *eventRepo) AppendFeedbackEvent(ctx context.Context, data FeedbackEventData) error {
	err := r.seq.insert(ctx, func(tx *sqlx.Tx, seq int64) error {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO feedback_events
			(sequence, ts_ms, execution_id, rating, comment, delivered)
			VALUES (:sequence, :ts_ms, :execution_id, :rating, :comment, :delivered)`,
			feedbackEventRow{
				Sequence:    seq,
				TsMs:        nowMillis(),
				ExecutionID: data.ExecutionID,
				Rating:      data.Rating,
				Comment:     data.Comment,
				Delivered:   data.Delivered,
			})
		return err
	})
	if err != nil {
		return fmt.Errorf("save feedback event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryFeedbackEvents(ctx context.Context, opts QueryOpts) ([]FeedbackEvent, error) {
	w := sequenceFilter(opts)
	limit, limitArgs := limitClause(opts)

	var rows []feedbackEventRow
	q := "SELECT * FROM feedback_events" + w.String() + " ORDER BY sequence DESC" + limit
	if err := r.db.SelectContext(ctx, &rows, q, append(w.args, limitArgs...)...); err != nil {
		return nil, fmt.Errorf("query feedback events: %w", err)
	}

	out := make([]FeedbackEvent, len(rows))
	for i, row := range rows {
		out[i] = FeedbackEvent{
			ID:        row.ID,
			Sequence:  row.Sequence,
			Timestamp: fromMillis(row.TsMs),
			FeedbackEventData: FeedbackEventData{
				ExecutionID: row.ExecutionID,
				Rating:      row.Rating,
				Comment:     row.Comment,
				Delivered:   row.Delivered,
			},
		}
	}
	return out, nil
}
