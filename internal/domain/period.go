package domain

import "time"

// PeriodKind classifies a span as position-open or position-closed.
type PeriodKind string

const (
	PeriodHeld    PeriodKind = "Held"
	PeriodNotHeld PeriodKind = "NotHeld"
)

// Period is a contiguous span between position changes. Bounds are inclusive
// on both ends for date-range membership tests.
type Period struct {
	Kind                    PeriodKind
	StartDate               time.Time
	EndDate                 time.Time
	DurationDays            int     // EndDate - StartDate in whole days
	CumulativeReturnPercent float64 // geometric compounding of in-range daily returns
	SampleCount             int     // daily returns that fell inside the bounds
	Label                   string  // "Held 1", "NotHeld 1", ... assigned after filtering
}

// Contains reports whether d falls within the period's inclusive bounds.
func (p *Period) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// DailyClassification labels one daily return with the period it falls in.
type DailyClassification struct {
	Date               time.Time
	DailyReturnPercent float64
	PeriodKind         PeriodKind
}
