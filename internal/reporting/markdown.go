package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Return Attribution: %s", r.Ticker))
	if r.Strategy != "" {
		sb.WriteString(fmt.Sprintf(" / %s", r.Strategy))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Asset class: %s | As of: %s\n\n", r.AssetClass, r.AsOf.Format(dayLayout)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Days | %d |\n", r.Summary.TotalDays))
	sb.WriteString(fmt.Sprintf("| Held Days | %d |\n", r.Summary.HeldDays))
	sb.WriteString(fmt.Sprintf("| Total Periods | %d |\n", r.Summary.TotalPeriods))
	sb.WriteString(fmt.Sprintf("| Held Periods | %d |\n", r.Summary.HeldPeriods))
	sb.WriteString("\n")

	// Periods
	sb.WriteString("## Periods\n\n")
	if len(r.Periods) > 0 {
		sb.WriteString("| Label | Kind | Start | End | Days | Cumulative Return % | Samples |\n")
		sb.WriteString("|-------|------|-------|-----|------|---------------------|--------|\n")
		for _, p := range r.Periods {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %.4f | %d |\n",
				p.Label, p.Kind, p.StartDate, p.EndDate,
				p.DurationDays, p.CumulativeReturnPct, p.SampleCount))
		}
	} else {
		sb.WriteString("No periods available.\n")
	}
	sb.WriteString("\n")

	// Daily classifications
	sb.WriteString("## Daily Classifications\n\n")
	if len(r.Daily) > 0 {
		sb.WriteString("| Date | Return % | Period | Held |\n")
		sb.WriteString("|------|----------|--------|------|\n")
		for _, d := range r.Daily {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %s | %s |\n",
				d.Date, d.ReturnPct, d.PeriodKind, kindMarker(d.PeriodKind)))
		}
	} else {
		sb.WriteString("No classified days available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
