package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type llmEventRow struct {
	ID           int64  `db:"id"`
	Sequence     int64  `db:"sequence"`
	TsMs         int64  `db:"ts_ms"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	ExecutionID  string `db:"execution_id"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
}

func (r llmEventRow) event() LLMEvent {
	return LLMEvent{
		ID:        r.ID,
		Sequence:  r.Sequence,
		Timestamp: fromMillis(r.TsMs),
		LLMRequestEventData: LLMRequestEventData{
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			ExecutionID:  r.ExecutionID,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
			RequestBody:  r.RequestBody,
			ResponseBody: r.ResponseBody,
		},
	}
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.seq.insert(ctx, func(tx *sqlx.Tx, seq int64) error {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO llm_request_events
			(sequence, ts_ms, provider, model, purpose, execution_id, input_tokens, output_tokens,
			 latency_ms, success, error_message, request_body, response_body)
			VALUES (:sequence, :ts_ms, :provider, :model, :purpose, :execution_id, :input_tokens, :output_tokens,
			 :latency_ms, :success, :error_message, :request_body, :response_body)`,
			llmEventRow{
				Sequence:     seq,
				TsMs:         nowMillis(),
				Provider:     data.Provider,
				Model:        data.Model,
				Purpose:      data.Purpose,
				ExecutionID:  data.ExecutionID,
				InputTokens:  data.InputTokens,
				OutputTokens: data.OutputTokens,
				LatencyMs:    data.LatencyMs,
				Success:      data.Success,
				ErrorMessage: data.ErrorMessage,
				RequestBody:  data.RequestBody,
				ResponseBody: data.ResponseBody,
			})
		return err
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	w := sequenceFilter(opts)
	if opts.Purpose != "" {
		w.add("purpose = ?", opts.Purpose)
	}
	limit, limitArgs := limitClause(opts)

	var rows []llmEventRow
	q := "SELECT * FROM llm_request_events" + w.String() + " ORDER BY sequence DESC" + limit
	if err := r.db.SelectContext(ctx, &rows, q, append(w.args, limitArgs...)...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	out := make([]LLMEvent, len(rows))
	for i, row := range rows {
		out[i] = row.event()
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error) {
	var row llmEventRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM llm_request_events WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	e := row.event()
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var rows []struct {
		Purpose      string  `db:"purpose"`
		Calls        int     `db:"calls"`
		Failures     int     `db:"failures"`
		InputTokens  int     `db:"input_tokens"`
		OutputTokens int     `db:"output_tokens"`
		AvgLatencyMs float64 `db:"avg_latency_ms"`
	}
	err := r.db.SelectContext(ctx, &rows, `SELECT
			purpose,
			COUNT(*) AS calls,
			COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failures,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms
		FROM llm_request_events
		GROUP BY purpose
		ORDER BY calls DESC, purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}

	out := make([]PurposeUsage, len(rows))
	for i, row := range rows {
		out[i] = PurposeUsage{
			Purpose:      row.Purpose,
			Calls:        row.Calls,
			Failures:     row.Failures,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			AvgLatencyMs: int64(row.AvgLatencyMs),
		}
	}
	return out, nil
}
