package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/storage"
)

// DailyReturnStore implements storage.DailyReturnStore using ClickHouse.
type DailyReturnStore struct {
	conn *Conn
}

// NewDailyReturnStore creates a new DailyReturnStore.
func NewDailyReturnStore(conn *Conn) *DailyReturnStore {
	return &DailyReturnStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyReturnStore = (*DailyReturnStore)(nil)

// rowTicker selects the identifying field for the asset class.
func rowTicker(class domain.AssetClass, r *domain.RawReturnRow) string {
	if class == domain.AssetClassCrypto {
		return r.BaseCurrency
	}
	return r.Symbol
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate (asset_class, ticker, date).
func (s *DailyReturnStore) InsertBulk(ctx context.Context, class domain.AssetClass, rows []domain.RawReturnRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		ticker string
		date   string
	}
	seen := make(map[key]struct{})
	for i := range rows {
		ticker := rowTicker(class, &rows[i])
		if ticker == "" || rows[i].Date == "" {
			return storage.ErrInvalidInput
		}
		k := key{ticker, rows[i].Date}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for i := range rows {
		exists, err := s.exists(ctx, class, rowTicker(class, &rows[i]), rows[i].Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_returns (
			asset_class, ticker, return_date, daily_return
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i := range rows {
		err = batch.Append(
			string(class), rowTicker(class, &rows[i]), rows[i].Date, rows[i].DailyReturn,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all rows for a ticker, ordered by date ASC.
func (s *DailyReturnStore) GetByTicker(ctx context.Context, class domain.AssetClass, ticker string) ([]domain.RawReturnRow, error) {
	query := `
		SELECT ticker, return_date, daily_return
		FROM daily_returns
		WHERE asset_class = ? AND ticker = ?
		ORDER BY return_date ASC
	`

	rows, err := s.conn.Query(ctx, query, string(class), ticker)
	if err != nil {
		return nil, fmt.Errorf("get returns by ticker: %w", err)
	}
	defer rows.Close()

	return scanReturnRows(rows, class)
}

// GetByDateRange retrieves rows for a ticker within [start, end] (inclusive,
// ISO-8601 day strings; lexical order matches chronological order).
func (s *DailyReturnStore) GetByDateRange(ctx context.Context, class domain.AssetClass, ticker, start, end string) ([]domain.RawReturnRow, error) {
	query := `
		SELECT ticker, return_date, daily_return
		FROM daily_returns
		WHERE asset_class = ? AND ticker = ? AND return_date >= ? AND return_date <= ?
		ORDER BY return_date ASC
	`

	rows, err := s.conn.Query(ctx, query, string(class), ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("get returns by date range: %w", err)
	}
	defer rows.Close()

	return scanReturnRows(rows, class)
}

// exists checks whether a row with the given key already exists.
func (s *DailyReturnStore) exists(ctx context.Context, class domain.AssetClass, ticker, date string) (bool, error) {
	query := `
		SELECT count() FROM daily_returns
		WHERE asset_class = ? AND ticker = ? AND return_date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, string(class), ticker, date).Scan(&count); err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	return count > 0, nil
}

// scanReturnRows scans rows back into raw return rows, restoring the
// asset-class-specific ticker field.
func scanReturnRows(rows driver.Rows, class domain.AssetClass) ([]domain.RawReturnRow, error) {
	var result []domain.RawReturnRow
	for rows.Next() {
		var (
			ticker string
			date   string
			ret    *float64
		)
		if err := rows.Scan(&ticker, &date, &ret); err != nil {
			return nil, fmt.Errorf("scan return row: %w", err)
		}
		row := domain.RawReturnRow{Date: date, DailyReturn: ret}
		if class == domain.AssetClassCrypto {
			row.BaseCurrency = ticker
		} else {
			row.Symbol = ticker
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return rows: %w", err)
	}
	return result, nil
}
