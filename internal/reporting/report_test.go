package reporting

import (
	"reflect"
	"testing"

	"bilancio/internal/core"
)

func datedExpense(date core.Date, cents int64, category string) core.ExpenseRecord {
	return core.ExpenseRecord{
		UserID:         1,
		Date:           date,
		WeekIdentifier: core.WeekIdentifier(date),
		Amount:         core.Money{Cents: cents},
		Category:       category,
	}
}

func octoberRecords() []core.ExpenseRecord {
	return []core.ExpenseRecord{
		datedExpense(core.NewDate(2025, 10, 6), 5000, "food"),
		datedExpense(core.NewDate(2025, 10, 8), 3000, "food"),
		datedExpense(core.NewDate(2025, 10, 13), 2000, ""),
	}
}

func TestBuildStatsReport(t *testing.T) {
	period := Period{From: core.NewDate(2025, 10, 1), To: core.NewDate(2025, 10, 31)}
	report := BuildStatsReport(octoberRecords(), period)

	if report.TotalAmount.Cents != 10000 {
		t.Fatalf("total amount = %d, want 10000", report.TotalAmount.Cents)
	}
	if report.TotalCount != 3 {
		t.Fatalf("total count = %d, want 3", report.TotalCount)
	}
	if report.Period != period {
		t.Fatalf("period not echoed back: %+v", report.Period)
	}

	wantCategories := []GroupStat{
		{Label: "food", Total: core.Money{Cents: 8000}, Count: 2, Average: 4000},
		{Label: UncategorizedLabel, Total: core.Money{Cents: 2000}, Count: 1, Average: 2000},
	}
	if !reflect.DeepEqual(report.ByCategory, wantCategories) {
		t.Fatalf("category stats = %+v, want %+v", report.ByCategory, wantCategories)
	}

	wantWeeks := []GroupStat{
		{Label: "2025-W41", Total: core.Money{Cents: 8000}, Count: 2, Average: 4000},
		{Label: "2025-W42", Total: core.Money{Cents: 2000}, Count: 1, Average: 2000},
	}
	if !reflect.DeepEqual(report.ByWeek, wantWeeks) {
		t.Fatalf("week stats = %+v, want %+v", report.ByWeek, wantWeeks)
	}
}

func TestBuildStatsReportFiltersByPeriod(t *testing.T) {
	records := append(octoberRecords(),
		datedExpense(core.NewDate(2025, 9, 30), 99900, "food"),
		datedExpense(core.NewDate(2025, 11, 1), 12300, "food"),
	)
	period := Period{From: core.NewDate(2025, 10, 1), To: core.NewDate(2025, 10, 31)}
	report := BuildStatsReport(records, period)
	if report.TotalCount != 3 || report.TotalAmount.Cents != 10000 {
		t.Fatalf("out-of-period records leaked in: count=%d total=%d", report.TotalCount, report.TotalAmount.Cents)
	}

	// Bounds are inclusive on both ends.
	edge := Period{From: core.NewDate(2025, 9, 30), To: core.NewDate(2025, 11, 1)}
	if got := BuildStatsReport(records, edge); got.TotalCount != 5 {
		t.Fatalf("inclusive bounds broken: count=%d", got.TotalCount)
	}
}

func TestBuildStatsReportInvertedPeriod(t *testing.T) {
	period := Period{From: core.NewDate(2025, 10, 31), To: core.NewDate(2025, 10, 1)}
	report := BuildStatsReport(octoberRecords(), period)
	if report.TotalCount != 0 || report.TotalAmount.Cents != 0 || report.AverageAmount != 0 {
		t.Fatalf("inverted period must yield empty report, got %+v", report)
	}
	if len(report.ByCategory) != 0 || len(report.ByStore) != 0 || len(report.ByWeek) != 0 {
		t.Fatalf("inverted period must have no aggregates, got %+v", report)
	}
	if report.Period != period {
		t.Fatalf("inverted period not echoed back: %+v", report.Period)
	}
}

func TestBuildStatsReportEmptyInput(t *testing.T) {
	period := Period{From: core.NewDate(2025, 10, 1), To: core.NewDate(2025, 10, 31)}
	report := BuildStatsReport(nil, period)
	if report.TotalCount != 0 || report.AverageAmount != 0 {
		t.Fatalf("empty input must not fault: %+v", report)
	}
}

func TestBuildStatsReportIdempotent(t *testing.T) {
	period := Period{From: core.NewDate(2025, 10, 1), To: core.NewDate(2025, 10, 31)}
	first := BuildStatsReport(octoberRecords(), period)
	second := BuildStatsReport(octoberRecords(), period)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestBuildStatsReportTotalIsViewIndependent(t *testing.T) {
	// With uncategorized records present, the overall total still equals the
	// per-record sum: category grouping is a view, not the source of truth.
	period := Period{From: core.NewDate(2025, 10, 1), To: core.NewDate(2025, 10, 31)}
	report := BuildStatsReport(octoberRecords(), period)

	var byCategory int64
	for _, g := range report.ByCategory {
		byCategory += g.Total.Cents
	}
	if byCategory != report.TotalAmount.Cents {
		t.Fatalf("category view lost records: %d != %d", byCategory, report.TotalAmount.Cents)
	}
}

func TestBuildStatsReportStoreTopTen(t *testing.T) {
	period := Period{From: core.NewDate(2025, 1, 1), To: core.NewDate(2025, 12, 31)}
	var records []core.ExpenseRecord
	for i := 0; i < 12; i++ {
		r := datedExpense(core.NewDate(2025, 3, 1+i), int64(100*(i+1)), "food")
		r.Store = string(rune('a' + i))
		records = append(records, r)
	}
	report := BuildStatsReport(records, period)
	if len(report.ByStore) != 10 {
		t.Fatalf("store stats not capped at 10: %d", len(report.ByStore))
	}
	// Category and week views stay unbounded.
	if len(report.ByCategory) != 1 {
		t.Fatalf("unexpected category count: %d", len(report.ByCategory))
	}
	// Totals are unaffected by the cap.
	if report.TotalCount != 12 {
		t.Fatalf("cap distorted totals: %d", report.TotalCount)
	}
}
