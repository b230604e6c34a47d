package attribution

import (
	"fmt"
	"time"

	"trade-attribution-lab/internal/domain"
)

// BuildPeriods walks normalized decisions and emits the unfiltered,
// chronological list of non-overlapping Held/NotHeld periods. Decisions and
// returns must be pre-sorted ascending by date.
//
// The walk starts from positionHeld = false. If return data begins before the
// first decision, a leading NotHeld period covers the gap regardless of the
// true pre-history position state (fixed policy). A boundary is emitted only
// when a decision actually flips the position state: unknown actions and
// repeated buys/sells neither create a boundary nor move the last-change date,
// which keeps the filtered view strictly alternating.
//
// After the last decision, a still-open position is closed by a trailing Held
// period ending at asOf; otherwise, return data extending past the last
// decision yields a trailing NotHeld period ending at the latest return date.
func BuildPeriods(decisions []domain.Decision, returns []domain.DailyReturn, asOf time.Time) []domain.Period {
	if len(decisions) == 0 && len(returns) == 0 {
		return nil
	}

	var lastChange time.Time
	if len(returns) > 0 {
		lastChange = returns[0].Date
	} else {
		lastChange = decisions[0].Date
	}

	held := false
	var periods []domain.Period

	for _, d := range decisions {
		var newHeld bool
		switch d.Action {
		case domain.ActionBuy:
			newHeld = true
		case domain.ActionSell:
			newHeld = false
		default:
			// No-op action: neither opens nor closes.
			continue
		}
		if newHeld == held {
			continue
		}
		if d.Date.After(lastChange) {
			periods = append(periods, newPeriod(kindOf(held), lastChange, d.Date))
		}
		held = newHeld
		lastChange = d.Date
	}

	if held {
		if asOf.After(lastChange) {
			periods = append(periods, newPeriod(domain.PeriodHeld, lastChange, asOf))
		}
	} else if len(returns) > 0 {
		latest := returns[len(returns)-1].Date
		if latest.After(lastChange) {
			periods = append(periods, newPeriod(domain.PeriodNotHeld, lastChange, latest))
		}
	}

	return periods
}

// FilterPeriods drops zero-duration periods and assigns per-kind labels in
// chronological order. The result is the statistics view; the unfiltered
// input remains the classification view.
func FilterPeriods(periods []domain.Period) []domain.Period {
	var result []domain.Period
	counts := make(map[domain.PeriodKind]int)
	for _, p := range periods {
		if p.DurationDays <= 0 {
			continue
		}
		counts[p.Kind]++
		p.Label = fmt.Sprintf("%s %d", p.Kind, counts[p.Kind])
		result = append(result, p)
	}
	return result
}

func newPeriod(kind domain.PeriodKind, start, end time.Time) domain.Period {
	return domain.Period{
		Kind:         kind,
		StartDate:    start,
		EndDate:      end,
		DurationDays: int(end.Sub(start).Hours() / 24),
	}
}

func kindOf(held bool) domain.PeriodKind {
	if held {
		return domain.PeriodHeld
	}
	return domain.PeriodNotHeld
}
