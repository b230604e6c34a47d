package normalization

import (
	"fmt"
	"sort"
	"strings"

	"trade-attribution-lab/internal/domain"
)

// NormalizeDecisions parses and orders raw decision records for one ticker.
// If strategy is non-empty, records for other strategies are filtered out
// first. Output is sorted ascending by date with a stable sort, so duplicate
// dates keep their input order. Actions are lower-cased; no record is dropped.
// Fails with ErrInvalidInput only when a date cannot be parsed.
func NormalizeDecisions(records []domain.DecisionRecord, strategy string) ([]domain.Decision, error) {
	var result []domain.Decision
	for _, r := range records {
		if strategy != "" && r.Strategy != strategy {
			continue
		}
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("decision %s/%s: %w", r.Ticker, r.Strategy, err)
		}
		result = append(result, domain.Decision{
			Ticker:   r.Ticker,
			Strategy: r.Strategy,
			Date:     date,
			Action:   strings.ToLower(r.Action),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}
