package attribution

import (
	"trade-attribution-lab/internal/domain"
)

// ClassifyDays assigns every daily return to the first chronological period
// whose inclusive bounds contain its date. Period bounds overlap on decision
// dates, so first-match means a decision-day return is labeled with the period
// that ends there, and each day is labeled exactly once. Rows matching no
// period are dropped silently; that is data outside the decision-covered span,
// not an error. Returns must be pre-sorted ascending, so the output is too.
func ClassifyDays(returns []domain.DailyReturn, periods []domain.Period) []domain.DailyClassification {
	var result []domain.DailyClassification
	for _, r := range returns {
		for i := range periods {
			if periods[i].Contains(r.Date) {
				result = append(result, domain.DailyClassification{
					Date:               r.Date,
					DailyReturnPercent: r.DailyReturnPercent,
					PeriodKind:         periods[i].Kind,
				})
				break
			}
		}
	}
	return result
}
