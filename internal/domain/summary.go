package domain

// AttributionSummary holds the counts dashboards display next to the charts.
type AttributionSummary struct {
	TotalDays    int // classified daily returns
	HeldDays     int // classified days inside Held periods
	TotalPeriods int // filtered (statistics view) periods
	HeldPeriods  int // filtered periods with Kind = Held
}
