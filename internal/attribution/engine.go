// Package attribution reconstructs the held/not-held timeline implied by a
// sparse buy/sell decision stream and attributes a dense daily-return series
// to it: compounded returns per period, a kind label per observed day, and
// summary counts. The whole engine is a pure function of its inputs; fetching,
// caching and rendering belong to callers.
package attribution

import (
	"fmt"
	"time"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/metrics"
	"trade-attribution-lab/internal/normalization"
)

// Input carries everything one attribution computation needs. Decisions and
// Returns are raw upstream records; AsOf closes a still-open trailing position
// and defaults to wall-clock time when zero. Pass a fixed AsOf for
// deterministic output.
type Input struct {
	Ticker     string
	Strategy   string // optional filter; empty keeps all strategies
	AssetClass domain.AssetClass
	Decisions  []domain.DecisionRecord
	Returns    []domain.RawReturnRow
	AsOf       time.Time
}

// Result is the engine output. Periods is the filtered statistics view;
// the unfiltered view exists only internally for day classification.
type Result struct {
	Periods              []domain.Period
	DailyClassifications []domain.DailyClassification
	Summary              domain.AttributionSummary
}

// Compute runs the full attribution for one ticker. It is deterministic:
// identical inputs, including AsOf, produce identical results. The only
// failure mode is normalization.ErrInvalidInput for unparsable dates.
func Compute(in Input) (*Result, error) {
	adapter, err := normalization.AdapterFor(in.AssetClass)
	if err != nil {
		return nil, err
	}

	returns, err := adapter.Normalize(in.Ticker, in.Returns)
	if err != nil {
		return nil, fmt.Errorf("normalize returns: %w", err)
	}

	var records []domain.DecisionRecord
	for _, r := range in.Decisions {
		if r.Ticker == in.Ticker {
			records = append(records, r)
		}
	}
	decisions, err := normalization.NormalizeDecisions(records, in.Strategy)
	if err != nil {
		return nil, fmt.Errorf("normalize decisions: %w", err)
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	unfiltered := BuildPeriods(decisions, returns, asOf)
	periods := FilterPeriods(unfiltered)
	for i := range periods {
		periods[i].CumulativeReturnPercent, periods[i].SampleCount =
			Compound(returns, periods[i].StartDate, periods[i].EndDate)
	}

	daily := ClassifyDays(returns, unfiltered)

	return &Result{
		Periods:              periods,
		DailyClassifications: daily,
		Summary:              metrics.Summarize(periods, daily),
	}, nil
}
