package attribution

import (
	"testing"
	"time"

	"trade-attribution-lab/internal/domain"
)

const dayLayout = "2006-01-02"

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// constantSeries builds n consecutive daily returns of pct percent starting at
// the given date.
func constantSeries(t *testing.T, start string, n int, pct float64) []domain.DailyReturn {
	t.Helper()
	first := day(t, start)
	series := make([]domain.DailyReturn, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, domain.DailyReturn{
			Date:               first.AddDate(0, 0, i),
			DailyReturnPercent: pct,
		})
	}
	return series
}

func constantRows(t *testing.T, ticker, start string, n int, pct float64) []domain.RawReturnRow {
	t.Helper()
	first := day(t, start)
	rows := make([]domain.RawReturnRow, 0, n)
	for i := 0; i < n; i++ {
		v := pct
		rows = append(rows, domain.RawReturnRow{
			Symbol:      ticker,
			Date:        first.AddDate(0, 0, i).Format(dayLayout),
			DailyReturn: &v,
		})
	}
	return rows
}
