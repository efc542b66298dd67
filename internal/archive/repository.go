package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
)

const defaultRecentLimit = 50

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Entry struct {
	ID            int64             `json:"id"`
	SessionID     string            `json:"sessionId"`
	Sequence      int64             `json:"sequence"`
	EventName     string            `json:"eventName"`
	Params        *analytics.Params `json:"params"`
	CorrelationID string            `json:"correlationId,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

type Repository interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Append(ctx context.Context, e Entry) error {
	params := e.Params
	if params == nil {
		params = analytics.NewParams()
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analytics_events (session_id, sequence, event_name, params, correlation_id, occurred_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`, e.SessionID, e.Sequence, e.EventName, string(raw), e.CorrelationID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// Recent returns the latest archived events of a session, most recent first.
func (r *PostgresRepository) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, sequence, event_name, params, COALESCE(correlation_id, ''), occurred_at
		FROM analytics_events
		WHERE session_id = $1
		ORDER BY sequence DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query analytics events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e   Entry
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Sequence, &e.EventName, &raw, &e.CorrelationID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		e.Params = analytics.NewParams()
		if err := e.Params.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("decode params of event %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analytics events: %w", err)
	}
	return out, nil
}
