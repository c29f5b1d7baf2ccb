package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/preetatdate/docpipeline/internal/core/ports"
)

// CallLogRepository persists one row per model invocation. Rows are
// append-only; nothing in the pipeline reads them back.
type CallLogRepository struct {
	db *sql.DB
}

func NewCallLogRepository(db *sql.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

func (r *CallLogRepository) Record(ctx context.Context, call ports.ModelCall) error {
	id := call.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO model_calls (id, case_id, model_id, tag, latency_ms, status, preview, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, call.CaseID, call.ModelID, call.Tag,
		call.LatencyMS, call.Status, call.Preview, call.Error,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert model call: %w", err)
	}
	return nil
}
