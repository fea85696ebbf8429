package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type learningEventRow struct {
	ID                int64  `db:"id"`
	Sequence          int64  `db:"sequence"`
	TsMs              int64  `db:"ts_ms"`
	SessionID         string `db:"session_id"`
	Action            string `db:"action"`
	Topic             string `db:"topic"`
	OriginalTopic     string `db:"original_topic"`
	FoundationalIndex int    `db:"foundational_index"`
	Correct           bool   `db:"correct"`
	TotalAnswered     int    `db:"total_answered"`
	TotalCorrect      int    `db:"total_correct"`
	ExecutionID       string `db:"execution_id"`
	Detail            string `db:"detail"`
}

func (r *eventRepo) AppendLearningEvent(ctx context.Context, data LearningEventData) error {
	if data.SessionID == "" || data.Action == "" {
		return fmt.Errorf("learning event needs a session id and an action")
	}
	err := r.seq.insert(ctx, func(tx *sqlx.Tx, seq int64) error {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO learning_events
			(sequence, ts_ms, session_id, action, topic, original_topic, foundational_index,
			 correct, total_answered, total_correct, execution_id, detail)
			VALUES (:sequence, :ts_ms, :session_id, :action, :topic, :original_topic, :foundational_index,
			 :correct, :total_answered, :total_correct, :execution_id, :detail)`,
			learningEventRow{
				Sequence:          seq,
				TsMs:              nowMillis(),
				SessionID:         data.SessionID,
				Action:            data.Action,
				Topic:             data.Topic,
				OriginalTopic:     data.OriginalTopic,
				FoundationalIndex: data.FoundationalIndex,
				Correct:           data.Correct,
				TotalAnswered:     data.TotalAnswered,
				TotalCorrect:      data.TotalCorrect,
				ExecutionID:       data.ExecutionID,
				Detail:            data.Detail,
			})
		return err
	})
	if err != nil {
		return fmt.Errorf("save learning event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLearningEvents(ctx context.Context, opts QueryOpts) ([]LearningEvent, error) {
	w := sequenceFilter(opts)
	if opts.Session != "" {
		w.add("session_id = ?", opts.Session)
	}
	limit, limitArgs := limitClause(opts)

	var rows []learningEventRow
	q := "SELECT * FROM learning_events" + w.String() + " ORDER BY sequence DESC" + limit
	if err := r.db.SelectContext(ctx, &rows, q, append(w.args, limitArgs...)...); err != nil {
		return nil, fmt.Errorf("query learning events: %w", err)
	}

	out := make([]LearningEvent, len(rows))
	for i, row := range rows {
		out[i] = LearningEvent{
			ID:        row.ID,
			Sequence:  row.Sequence,
			Timestamp: fromMillis(row.TsMs),
			LearningEventData: LearningEventData{
				SessionID:         row.SessionID,
				Action:            row.Action,
				Topic:             row.Topic,
				OriginalTopic:     row.OriginalTopic,
				FoundationalIndex: row.FoundationalIndex,
				Correct:           row.Correct,
				TotalAnswered:     row.TotalAnswered,
				TotalCorrect:      row.TotalCorrect,
				ExecutionID:       row.ExecutionID,
				Detail:            row.Detail,
			},
		}
	}
	return out, nil
}

// MasteredTopics lists every topic whose main assessment was passed, most
// recent first.
func (r *eventRepo) MasteredTopics(ctx context.Context) ([]MasteredTopic, error) {
	var rows []struct {
		Topic  string `db:"topic"`
		Times  int    `db:"times"`
		LastMs int64  `db:"last_ms"`
	}
	err := r.db.SelectContext(ctx, &rows, `SELECT topic, COUNT(*) AS times, MAX(ts_ms) AS last_ms
		FROM learning_events
		WHERE action = ?
		GROUP BY topic
		ORDER BY last_ms DESC, topic`, ActionMainPassed)
	if err != nil {
		return nil, fmt.Errorf("query mastered topics: %w", err)
	}

	out := make([]MasteredTopic, len(rows))
	for i, row := range rows {
		out[i] = MasteredTopic{Topic: row.Topic, Times: row.Times, LastAt: fromMillis(row.LastMs)}
	}
	return out, nil
}
