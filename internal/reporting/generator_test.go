package reporting

import (
	"strings"
	"testing"
	"time"

	"trade-attribution-lab/internal/attribution"
	"trade-attribution-lab/internal/domain"
)

func testResult(t *testing.T) (attribution.Input, *attribution.Result) {
	t.Helper()

	ret := 1.0
	rows := make([]domain.RawReturnRow, 0, 20)
	start, err := time.Parse(dayLayout, "2024-01-01")
	if err != nil {
		t.Fatalf("bad test date: %v", err)
	}
	for i := 0; i < 20; i++ {
		v := ret
		rows = append(rows, domain.RawReturnRow{
			Symbol:      "AAPL",
			Date:        start.AddDate(0, 0, i).Format(dayLayout),
			DailyReturn: &v,
		})
	}

	in := attribution.Input{
		Ticker:     "AAPL",
		Strategy:   "momentum",
		AssetClass: domain.AssetClassStocks,
		Decisions: []domain.DecisionRecord{
			{Ticker: "AAPL", Strategy: "momentum", Date: "2024-01-10", Action: "buy"},
			{Ticker: "AAPL", Strategy: "momentum", Date: "2024-01-15", Action: "sell"},
		},
		Returns: rows,
		AsOf:    start.AddDate(0, 5, 0),
	}

	result, err := attribution.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return in, result
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildReport(t *testing.T) {
	in, result := testResult(t)

	report := BuildReport(in, result, fixedNow)

	if report.Ticker != "AAPL" || report.Strategy != "momentum" {
		t.Errorf("Unexpected metadata: %+v", report)
	}
	if !report.GeneratedAt.Equal(fixedNow()) {
		t.Errorf("Expected injected clock, got %v", report.GeneratedAt)
	}
	if len(report.Periods) != 3 {
		t.Fatalf("Expected 3 period rows, got %d", len(report.Periods))
	}
	if report.Periods[0].StartDate != "2024-01-01" || report.Periods[0].EndDate != "2024-01-10" {
		t.Errorf("Unexpected first period row: %+v", report.Periods[0])
	}
	if report.Periods[1].Label != "Held 1" {
		t.Errorf("Expected label 'Held 1', got %q", report.Periods[1].Label)
	}
	if len(report.Daily) != 20 {
		t.Errorf("Expected 20 daily rows, got %d", len(report.Daily))
	}
}

func TestRenderMarkdown(t *testing.T) {
	in, result := testResult(t)
	report := BuildReport(in, result, fixedNow)

	md := RenderMarkdown(report)

	for _, want := range []string{
		"AAPL",
		"momentum",
		"NotHeld 1",
		"Held 1",
		"2024-01-10",
		"| Date |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestRenderPeriodsCSV(t *testing.T) {
	in, result := testResult(t)
	report := BuildReport(in, result, fixedNow)

	csv := RenderPeriodsCSV(report.Periods)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	// Header plus one line per period.
	if len(lines) != 1+len(report.Periods) {
		t.Fatalf("Expected %d CSV lines, got %d", 1+len(report.Periods), len(lines))
	}
	if !strings.Contains(lines[0], "label") {
		t.Errorf("Expected header row, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-01-01") {
		t.Errorf("Expected first period start in row, got %q", lines[1])
	}
}

func TestRenderDailyCSV(t *testing.T) {
	in, result := testResult(t)
	report := BuildReport(in, result, fixedNow)

	csv := RenderDailyCSV(report.Daily)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 1+len(report.Daily) {
		t.Fatalf("Expected %d CSV lines, got %d", 1+len(report.Daily), len(lines))
	}
}
