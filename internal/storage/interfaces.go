package storage

import (
	"context"

	"trade-attribution-lab/internal/domain"
)

// DecisionStore provides access to the append-only decision log.
type DecisionStore interface {
	// Insert adds a new decision event. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, e *domain.DecisionEvent) error

	// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.DecisionEvent) error

	// GetByTicker retrieves all events for a ticker, ordered by seq ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.DecisionEvent, error)

	// GetByTickerStrategy retrieves events for a ticker+strategy, ordered by seq ASC.
	GetByTickerStrategy(ctx context.Context, ticker, strategy string) ([]*domain.DecisionEvent, error)
}

// DailyReturnStore provides access to daily return series storage.
// Rows are keyed by (asset_class, ticker, date).
type DailyReturnStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate (asset_class, ticker, date).
	InsertBulk(ctx context.Context, class domain.AssetClass, rows []domain.RawReturnRow) error

	// GetByTicker retrieves all rows for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, class domain.AssetClass, ticker string) ([]domain.RawReturnRow, error)

	// GetByDateRange retrieves rows for a ticker within [start, end] (inclusive,
	// ISO-8601 day strings).
	GetByDateRange(ctx context.Context, class domain.AssetClass, ticker, start, end string) ([]domain.RawReturnRow, error)
}
