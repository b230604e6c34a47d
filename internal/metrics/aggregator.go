// Package metrics derives summary counts from attribution outputs.
package metrics

import (
	"trade-attribution-lab/internal/domain"
)

// Summarize counts days and periods over the filtered period list and the
// classified daily series. Pure counting; callers display these directly.
func Summarize(periods []domain.Period, daily []domain.DailyClassification) domain.AttributionSummary {
	s := domain.AttributionSummary{
		TotalDays:    len(daily),
		TotalPeriods: len(periods),
	}
	for _, d := range daily {
		if d.PeriodKind == domain.PeriodHeld {
			s.HeldDays++
		}
	}
	for _, p := range periods {
		if p.Kind == domain.PeriodHeld {
			s.HeldPeriods++
		}
	}
	return s
}
