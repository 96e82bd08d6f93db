package reporting

import (
	"sort"

	"bilancio/internal/core"
)

// Only the store view is capped: store counts grow without bound while
// category and week counts stay naturally small.
const storeStatsLimit = 10

// Period is an inclusive [From, To] calendar date range.
type Period struct {
	From core.Date
	To   core.Date
}

// Contains reports whether d falls inside the period, bounds included.
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Valid reports whether the period's bounds are ordered.
func (p Period) Valid() bool {
	return !p.To.Before(p.From)
}

// Report is the full expense statistics view for a period: overall totals,
// the three aggregate breakdowns, and the period echoed back so callers can
// display the active filter without tracking it separately.
type Report struct {
	Period        Period
	TotalAmount   core.Money
	TotalCount    int
	AverageAmount float64
	ByCategory    []GroupStat
	ByStore       []GroupStat
	ByWeek        []GroupStat
}

// BuildStatsReport filters records to the period and assembles the report.
//
// An inverted period (To < From) is a caller error and yields an empty report
// with the period echoed back, never swapped bounds and never a fault. Week
// grouping trusts each record's persisted WeekIdentifier field; keeping that
// field consistent with the date is the writer's job, not the builder's.
func BuildStatsReport(records []core.ExpenseRecord, period Period) Report {
	report := Report{Period: period}
	if !period.Valid() {
		return report
	}

	filtered := make([]core.ExpenseRecord, 0, len(records))
	for _, r := range records {
		if period.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}

	amount := func(r core.ExpenseRecord) core.Money { return r.Amount }
	report.ByCategory = Aggregate(filtered, func(r core.ExpenseRecord) string { return r.Category }, amount, UncategorizedLabel, 0)
	report.ByStore = Aggregate(filtered, func(r core.ExpenseRecord) string { return r.Store }, amount, NoStoreLabel, storeStatsLimit)
	report.ByWeek = Aggregate(filtered, func(r core.ExpenseRecord) string { return r.WeekIdentifier }, amount, NoWeekLabel, 0)

	// The week view is a time series: chronological order reads better than
	// spend order, and the "YYYY-Www" labels sort lexicographically.
	sort.SliceStable(report.ByWeek, func(i, j int) bool {
		return report.ByWeek[i].Label < report.ByWeek[j].Label
	})

	for _, r := range filtered {
		report.TotalAmount.Cents += r.Amount.Cents
	}
	report.TotalCount = len(filtered)
	if report.TotalCount > 0 {
		report.AverageAmount = float64(report.TotalAmount.Cents) / float64(report.TotalCount)
	}
	return report
}
