package attribution

import (
	"testing"
	"time"

	"trade-attribution-lab/internal/domain"
)

func decision(t *testing.T, date, action string) domain.Decision {
	t.Helper()
	return domain.Decision{Ticker: "AAPL", Strategy: "m", Date: day(t, date), Action: action}
}

func checkPeriod(t *testing.T, p domain.Period, kind domain.PeriodKind, start, end string) {
	t.Helper()
	if p.Kind != kind {
		t.Errorf("Expected kind %s, got %s", kind, p.Kind)
	}
	if !p.StartDate.Equal(day(t, start)) {
		t.Errorf("Expected start %s, got %s", start, p.StartDate.Format(dayLayout))
	}
	if !p.EndDate.Equal(day(t, end)) {
		t.Errorf("Expected end %s, got %s", end, p.EndDate.Format(dayLayout))
	}
}

func TestBuildPeriods_LeadingGapAndTrailingFlat(t *testing.T) {
	returns := constantSeries(t, "2024-01-01", 20, 1.0)
	decisions := []domain.Decision{
		decision(t, "2024-01-10", domain.ActionBuy),
		decision(t, "2024-01-15", domain.ActionSell),
	}

	periods := BuildPeriods(decisions, returns, day(t, "2024-06-01"))
	if len(periods) != 3 {
		t.Fatalf("Expected 3 periods, got %d: %+v", len(periods), periods)
	}

	checkPeriod(t, periods[0], domain.PeriodNotHeld, "2024-01-01", "2024-01-10")
	checkPeriod(t, periods[1], domain.PeriodHeld, "2024-01-10", "2024-01-15")
	// After the final sell the view is capped at the latest return date,
	// not at asOf.
	checkPeriod(t, periods[2], domain.PeriodNotHeld, "2024-01-15", "2024-01-20")
}

func TestBuildPeriods_OpenPositionClosesAtAsOf(t *testing.T) {
	returns := constantSeries(t, "2024-02-01", 5, 1.0)
	decisions := []domain.Decision{
		decision(t, "2024-02-01", domain.ActionBuy),
	}

	periods := BuildPeriods(decisions, returns, day(t, "2024-02-11"))
	if len(periods) != 1 {
		t.Fatalf("Expected 1 period, got %d: %+v", len(periods), periods)
	}
	checkPeriod(t, periods[0], domain.PeriodHeld, "2024-02-01", "2024-02-11")
}

func TestBuildPeriods_UnknownActionIsNoOp(t *testing.T) {
	returns := constantSeries(t, "2024-01-01", 10, 1.0)
	decisions := []domain.Decision{
		decision(t, "2024-01-03", domain.ActionBuy),
		decision(t, "2024-01-05", "hold"),
		decision(t, "2024-01-08", domain.ActionSell),
	}

	periods := BuildPeriods(decisions, returns, day(t, "2024-06-01"))
	if len(periods) != 3 {
		t.Fatalf("Expected 3 periods, got %d: %+v", len(periods), periods)
	}
	// The hold on Jan 5 must not split the Jan 3 to Jan 8 Held period.
	checkPeriod(t, periods[1], domain.PeriodHeld, "2024-01-03", "2024-01-08")
}

func TestBuildPeriods_RepeatedBuyDoesNotSplit(t *testing.T) {
	returns := constantSeries(t, "2024-01-01", 10, 1.0)
	decisions := []domain.Decision{
		decision(t, "2024-01-02", domain.ActionBuy),
		decision(t, "2024-01-04", domain.ActionBuy),
		decision(t, "2024-01-07", domain.ActionSell),
	}

	periods := BuildPeriods(decisions, returns, day(t, "2024-06-01"))
	for i := 1; i < len(periods); i++ {
		if periods[i].Kind == periods[i-1].Kind {
			t.Errorf("Adjacent periods share kind %s: %+v", periods[i].Kind, periods)
		}
	}

	var held []domain.Period
	for _, p := range periods {
		if p.Kind == domain.PeriodHeld {
			held = append(held, p)
		}
	}
	if len(held) != 1 {
		t.Fatalf("Expected a single Held period, got %d", len(held))
	}
	checkPeriod(t, held[0], domain.PeriodHeld, "2024-01-02", "2024-01-07")
}

func TestBuildPeriods_SellWithoutPosition(t *testing.T) {
	returns := constantSeries(t, "2024-01-01", 10, 1.0)
	decisions := []domain.Decision{
		decision(t, "2024-01-03", domain.ActionSell),
		decision(t, "2024-01-05", domain.ActionBuy),
	}

	periods := BuildPeriods(decisions, returns, day(t, "2024-01-10"))
	if len(periods) != 2 {
		t.Fatalf("Expected 2 periods, got %d: %+v", len(periods), periods)
	}
	checkPeriod(t, periods[0], domain.PeriodNotHeld, "2024-01-01", "2024-01-05")
	checkPeriod(t, periods[1], domain.PeriodHeld, "2024-01-05", "2024-01-10")
}

func TestBuildPeriods_NoDecisions(t *testing.T) {
	returns := constantSeries(t, "2024-01-01", 10, 1.0)

	periods := BuildPeriods(nil, returns, day(t, "2024-06-01"))
	if len(periods) != 1 {
		t.Fatalf("Expected 1 period, got %d", len(periods))
	}
	checkPeriod(t, periods[0], domain.PeriodNotHeld, "2024-01-01", "2024-01-10")
}

func TestBuildPeriods_Empty(t *testing.T) {
	if periods := BuildPeriods(nil, nil, time.Now()); len(periods) != 0 {
		t.Errorf("Expected no periods, got %+v", periods)
	}
}

func TestFilterPeriods_DropsZeroDurationAndLabels(t *testing.T) {
	periods := []domain.Period{
		{Kind: domain.PeriodNotHeld, StartDate: day(t, "2024-01-01"), EndDate: day(t, "2024-01-05"), DurationDays: 4},
		{Kind: domain.PeriodHeld, StartDate: day(t, "2024-01-05"), EndDate: day(t, "2024-01-05"), DurationDays: 0},
		{Kind: domain.PeriodNotHeld, StartDate: day(t, "2024-01-05"), EndDate: day(t, "2024-01-09"), DurationDays: 4},
		{Kind: domain.PeriodHeld, StartDate: day(t, "2024-01-09"), EndDate: day(t, "2024-01-12"), DurationDays: 3},
	}

	filtered := FilterPeriods(periods)
	if len(filtered) != 3 {
		t.Fatalf("Expected 3 periods, got %d", len(filtered))
	}

	wantLabels := []string{"NotHeld 1", "NotHeld 2", "Held 1"}
	for i, want := range wantLabels {
		if filtered[i].Label != want {
			t.Errorf("Period %d: expected label %q, got %q", i, want, filtered[i].Label)
		}
	}
}
