package reporting

import (
	"fmt"
	"strings"
)

// RenderPeriodsCSV renders the periods table as CSV string.
func RenderPeriodsCSV(periods []PeriodRow) string {
	var sb strings.Builder

	sb.WriteString("label,kind,start_date,end_date,duration_days,cumulative_return_pct,sample_count\n")
	for _, p := range periods {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%.6f,%d\n",
			p.Label,
			p.Kind,
			p.StartDate,
			p.EndDate,
			p.DurationDays,
			p.CumulativeReturnPct,
			p.SampleCount,
		))
	}

	return sb.String()
}

// RenderDailyCSV renders the daily classifications as CSV string.
func RenderDailyCSV(daily []DailyRow) string {
	var sb strings.Builder

	sb.WriteString("date,daily_return_pct,period_kind\n")
	for _, d := range daily {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%s\n",
			d.Date,
			d.ReturnPct,
			d.PeriodKind,
		))
	}

	return sb.String()
}
