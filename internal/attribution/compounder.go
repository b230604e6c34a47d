package attribution

import (
	"math"
	"time"

	"trade-attribution-lab/internal/domain"
)

// Compound computes the compounded return of all daily returns whose dates
// fall within [start, end), expressed as a percentage, along with the number
// of rows that contributed. Returns must be pre-sorted ascending.
//
// The half-open selection is the boundary policy: a decision-day return
// accrues to the period that starts on that day, never to both adjacent
// periods, so per-period returns compose without double-counting.
//
// Summing percentages directly is wrong for compounding; summing log-returns
// and exponentiating equals the product form Π(1+r/100) while staying
// numerically stable:
//
//	cumulative = (exp(Σ ln(1 + r/100)) − 1) × 100
//
// An empty selection yields 0, indistinguishable from an actually flat period;
// callers needing the distinction inspect the sample count.
func Compound(returns []domain.DailyReturn, start, end time.Time) (float64, int) {
	sumLog := 0.0
	n := 0
	for _, r := range returns {
		if r.Date.Before(start) {
			continue
		}
		if !r.Date.Before(end) {
			break
		}
		n++
		factor := 1 + r.DailyReturnPercent/100
		if factor <= 0 {
			// A -100% (or worse) day wipes the position; the product form
			// bottoms out at total loss and the log form is undefined.
			return -100, n
		}
		sumLog += math.Log(factor)
	}
	if n == 0 {
		return 0, 0
	}
	return (math.Exp(sumLog) - 1) * 100, n
}
