package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/storage"
)

// DecisionStore implements storage.DecisionStore using PostgreSQL.
type DecisionStore struct {
	pool *Pool
}

// NewDecisionStore creates a new DecisionStore.
func NewDecisionStore(pool *Pool) *DecisionStore {
	return &DecisionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// Insert adds a new decision event. Returns ErrDuplicateKey if record_id exists.
func (s *DecisionStore) Insert(ctx context.Context, e *domain.DecisionEvent) error {
	query := `
		INSERT INTO decisions (
			record_id, seq, ticker, strategy, decision_date, action
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		e.RecordID,
		e.Seq,
		e.Ticker,
		e.Strategy,
		e.Date,
		e.Action,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(ctx context.Context, events []*domain.DecisionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO decisions (
			record_id, seq, ticker, strategy, decision_date, action
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, e := range events {
		_, err := tx.Exec(ctx, query,
			e.RecordID,
			e.Seq,
			e.Ticker,
			e.Strategy,
			e.Date,
			e.Action,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert decision in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByTicker retrieves all events for a ticker, ordered by seq ASC.
func (s *DecisionStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.DecisionEvent, error) {
	query := `
		SELECT record_id, seq, ticker, strategy, decision_date, action
		FROM decisions
		WHERE ticker = $1
		ORDER BY seq ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get decisions by ticker: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// GetByTickerStrategy retrieves events for a ticker+strategy, ordered by seq ASC.
func (s *DecisionStore) GetByTickerStrategy(ctx context.Context, ticker, strategy string) ([]*domain.DecisionEvent, error) {
	query := `
		SELECT record_id, seq, ticker, strategy, decision_date, action
		FROM decisions
		WHERE ticker = $1 AND strategy = $2
		ORDER BY seq ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker, strategy)
	if err != nil {
		return nil, fmt.Errorf("get decisions by ticker+strategy: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// scanDecisions scans all rows into decision events.
func scanDecisions(rows pgx.Rows) ([]*domain.DecisionEvent, error) {
	var result []*domain.DecisionEvent
	for rows.Next() {
		var e domain.DecisionEvent
		if err := rows.Scan(
			&e.RecordID,
			&e.Seq,
			&e.Ticker,
			&e.Strategy,
			&e.Date,
			&e.Action,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return result, nil
}
