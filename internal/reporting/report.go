package reporting

import (
	"time"

	"trade-attribution-lab/internal/domain"
)

// Report is the renderable attribution result for one ticker+strategy.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Ticker      string
	Strategy    string
	AssetClass  domain.AssetClass
	AsOf        time.Time

	// Periods (filtered, statistics view), chronological
	Periods []PeriodRow

	// Daily classifications, chronological
	Daily []DailyRow

	// Summary counts
	Summary domain.AttributionSummary
}

// PeriodRow represents one row in the periods table.
type PeriodRow struct {
	Label               string
	Kind                string
	StartDate           string // ISO-8601 day
	EndDate             string
	DurationDays        int
	CumulativeReturnPct float64
	SampleCount         int // 0 means "no data", distinct from an actually flat period
}

// DailyRow represents one classified daily return.
type DailyRow struct {
	Date       string // ISO-8601 day
	ReturnPct  float64
	PeriodKind string
}
