// Package reporting renders attribution results as Markdown and CSV.
package reporting

import (
	"time"

	"trade-attribution-lab/internal/attribution"
	"trade-attribution-lab/internal/domain"
)

const dayLayout = "2006-01-02"

// BuildReport assembles a Report from an engine result. now is injectable for
// deterministic output.
func BuildReport(in attribution.Input, result *attribution.Result, now func() time.Time) *Report {
	if now == nil {
		now = time.Now
	}

	r := &Report{
		GeneratedAt: now().UTC(),
		Ticker:      in.Ticker,
		Strategy:    in.Strategy,
		AssetClass:  in.AssetClass,
		AsOf:        in.AsOf,
		Summary:     result.Summary,
	}

	for _, p := range result.Periods {
		r.Periods = append(r.Periods, PeriodRow{
			Label:               p.Label,
			Kind:                string(p.Kind),
			StartDate:           p.StartDate.Format(dayLayout),
			EndDate:             p.EndDate.Format(dayLayout),
			DurationDays:        p.DurationDays,
			CumulativeReturnPct: p.CumulativeReturnPercent,
			SampleCount:         p.SampleCount,
		})
	}

	for _, d := range result.DailyClassifications {
		r.Daily = append(r.Daily, DailyRow{
			Date:       d.Date.Format(dayLayout),
			ReturnPct:  d.DailyReturnPercent,
			PeriodKind: string(d.PeriodKind),
		})
	}

	return r
}

// kindMarker is used in the daily table to make held spans scannable.
func kindMarker(kind string) string {
	if kind == string(domain.PeriodHeld) {
		return "*"
	}
	return ""
}
