package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/storage"
)

// DailyReturnStore is an in-memory implementation of storage.DailyReturnStore.
type DailyReturnStore struct {
	mu   sync.RWMutex
	data map[string]domain.RawReturnRow // keyed by (asset_class, ticker, date)
}

// NewDailyReturnStore creates a new in-memory daily return store.
func NewDailyReturnStore() *DailyReturnStore {
	return &DailyReturnStore{
		data: make(map[string]domain.RawReturnRow),
	}
}

// Compile-time interface check.
var _ storage.DailyReturnStore = (*DailyReturnStore)(nil)

// returnKey generates a unique key for a return row.
func returnKey(class domain.AssetClass, ticker, date string) string {
	return fmt.Sprintf("%s|%s|%s", class, ticker, date)
}

// rowTicker selects the identifying field for the asset class.
func rowTicker(class domain.AssetClass, r *domain.RawReturnRow) string {
	if class == domain.AssetClassCrypto {
		return r.BaseCurrency
	}
	return r.Symbol
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate (asset_class, ticker, date).
func (s *DailyReturnStore) InsertBulk(_ context.Context, class domain.AssetClass, rows []domain.RawReturnRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(rows))

	for i := range rows {
		ticker := rowTicker(class, &rows[i])
		if ticker == "" || rows[i].Date == "" {
			return storage.ErrInvalidInput
		}
		key := returnKey(class, ticker, rows[i].Date)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for i := range rows {
		key := returnKey(class, rowTicker(class, &rows[i]), rows[i].Date)
		rowCopy := rows[i]
		if rows[i].DailyReturn != nil {
			v := *rows[i].DailyReturn
			rowCopy.DailyReturn = &v
		}
		s.data[key] = rowCopy
	}
	return nil
}

// GetByTicker retrieves all rows for a ticker, ordered by date ASC.
func (s *DailyReturnStore) GetByTicker(ctx context.Context, class domain.AssetClass, ticker string) ([]domain.RawReturnRow, error) {
	// ISO day strings order lexically, so the full range covers everything.
	return s.GetByDateRange(ctx, class, ticker, "", "9999-12-31")
}

// GetByDateRange retrieves rows for a ticker within [start, end] (inclusive).
func (s *DailyReturnStore) GetByDateRange(_ context.Context, class domain.AssetClass, ticker, start, end string) ([]domain.RawReturnRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.RawReturnRow
	for _, r := range s.data {
		if rowTicker(class, &r) != ticker {
			continue
		}
		if r.Date < start || r.Date > end {
			continue
		}
		rowCopy := r
		if r.DailyReturn != nil {
			v := *r.DailyReturn
			rowCopy.DailyReturn = &v
		}
		result = append(result, rowCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}
