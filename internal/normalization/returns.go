package normalization

import (
	"fmt"
	"math"
	"sort"

	"trade-attribution-lab/internal/domain"
)

// SeriesAdapter normalizes asset-class-specific return rows into a uniform
// daily return series for one ticker. The two implementations exist purely to
// hide the stocks/crypto field-name asymmetry (symbol vs base_currency) from
// the rest of the engine.
type SeriesAdapter interface {
	// AssetClass identifies which raw rows this adapter understands.
	AssetClass() domain.AssetClass

	// Normalize restricts rows to the requested ticker, drops rows whose
	// return is nil or non-finite (never zero-fills), and returns the series
	// sorted ascending by date. Fails with ErrInvalidInput on unparsable dates.
	Normalize(ticker string, rows []domain.RawReturnRow) ([]domain.DailyReturn, error)
}

// AdapterFor returns the adapter for the given asset class.
func AdapterFor(class domain.AssetClass) (SeriesAdapter, error) {
	switch class {
	case domain.AssetClassStocks:
		return stockAdapter{}, nil
	case domain.AssetClassCrypto:
		return cryptoAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown asset class %q", ErrInvalidInput, class)
	}
}

// stockAdapter keys rows by Symbol.
type stockAdapter struct{}

func (stockAdapter) AssetClass() domain.AssetClass { return domain.AssetClassStocks }

func (stockAdapter) Normalize(ticker string, rows []domain.RawReturnRow) ([]domain.DailyReturn, error) {
	return normalizeRows(ticker, rows, func(r *domain.RawReturnRow) string { return r.Symbol })
}

// cryptoAdapter keys rows by BaseCurrency.
type cryptoAdapter struct{}

func (cryptoAdapter) AssetClass() domain.AssetClass { return domain.AssetClassCrypto }

func (cryptoAdapter) Normalize(ticker string, rows []domain.RawReturnRow) ([]domain.DailyReturn, error) {
	return normalizeRows(ticker, rows, func(r *domain.RawReturnRow) string { return r.BaseCurrency })
}

// normalizeRows is the shared adapter body; tickerKey selects the field that
// identifies the instrument for the asset class.
func normalizeRows(ticker string, rows []domain.RawReturnRow, tickerKey func(*domain.RawReturnRow) string) ([]domain.DailyReturn, error) {
	var result []domain.DailyReturn
	for i := range rows {
		r := &rows[i]
		if tickerKey(r) != ticker {
			continue
		}
		if r.DailyReturn == nil || math.IsNaN(*r.DailyReturn) || math.IsInf(*r.DailyReturn, 0) {
			continue
		}
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("return row for %s: %w", ticker, err)
		}
		result = append(result, domain.DailyReturn{
			Date:               date,
			DailyReturnPercent: *r.DailyReturn,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}
