package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"bilancio/internal/reporting"
	"bilancio/internal/storage"
)

// statsPeriod resolves the requested period. Either both bounds come from the
// query string or neither does; with neither, the default window applies. An
// inverted explicit period is passed through untouched so the report comes
// back empty with the period echoed, which tells the caller exactly what was
// asked for.
func (s *Server) statsPeriod(r *http.Request) (reporting.Period, bool) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return s.defaultPeriod(time.Now().UTC()), true
	}
	from, err := parseDate(fromStr)
	if err != nil {
		return reporting.Period{}, false
	}
	to, err := parseDate(toStr)
	if err != nil {
		return reporting.Period{}, false
	}
	return reporting.Period{From: from, To: to}, true
}

func (s *Server) buildStatsReport(r *http.Request) (reporting.Report, int, string) {
	userID, ok := parseID(r.URL.Query().Get("user_id"))
	if !ok {
		return reporting.Report{}, http.StatusBadRequest, "missing or invalid user_id"
	}
	period, ok := s.statsPeriod(r)
	if !ok {
		return reporting.Report{}, http.StatusBadRequest, "invalid period: from and to must both be YYYY-MM-DD"
	}

	// The store narrows by user only; the period filter belongs to the report
	// builder so inverted bounds behave uniformly.
	records, err := s.expReader.ListExpenses(r.Context(), storage.ExpenseFilter{UserID: userID})
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load expenses for report", "error", err)
		return reporting.Report{}, http.StatusInternalServerError, "failed to build report"
	}

	report := reporting.BuildStatsReport(records, period)
	atomic.AddInt64(&s.appMetrics.reportsBuilt, 1)
	return report, http.StatusOK, ""
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	report, status, msg := s.buildStatsReport(r)
	if status != http.StatusOK {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, buildStatsReportResponse(report))
}

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}
	report, status, msg := s.buildStatsReport(r)
	if status != http.StatusOK {
		writeError(w, status, msg)
		return
	}

	ref, err := s.exporter.ExportStatsReport(r.Context(), report)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to export report", "error", err)
		writeError(w, http.StatusBadGateway, "failed to export report")
		return
	}
	atomic.AddInt64(&s.appMetrics.reportsExported, 1)

	slog.InfoContext(r.Context(), "Report exported",
		"ref", ref,
		"period_from", report.Period.From.String(),
		"period_to", report.Period.To.String())
	writeJSON(w, http.StatusOK, map[string]string{"exported_to": ref})
}
