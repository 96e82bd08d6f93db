// Package http exposes the reporting service as a JSON API. Handlers parse
// and validate input, delegate to the stores and the reporting core, and
// shape the response; they hold no state of their own.
package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/reporting"
	"bilancio/internal/sheets"
	"bilancio/internal/storage"
)

// Ports the handlers depend on. The expense write path goes through the
// service so reindex messages get published; reads go straight to storage.
type (
	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.ExpenseRecord) (int64, error)
		UpdateExpense(ctx context.Context, e core.ExpenseRecord) error
		DeleteExpense(ctx context.Context, id int64) error
	}

	ExpenseReader interface {
		GetExpense(ctx context.Context, id int64) (core.ExpenseRecord, error)
		ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]core.ExpenseRecord, error)
		ListWeeks(ctx context.Context, userID int64) ([]string, error)
	}

	FuelStore interface {
		CreateVehicle(ctx context.Context, v core.Vehicle) (int64, error)
		DeleteVehicle(ctx context.Context, id int64) error
		CreateFuelLog(ctx context.Context, f core.FuelLogRecord) (int64, error)
		ListFuelLogs(ctx context.Context, vehicleID int64) ([]core.FuelLogRecord, error)
	}
)

type Server struct {
	http.Server

	expWriter ExpenseWriter
	expReader ExpenseReader
	fuelStore FuelStore
	exporter  sheets.ReportExporter

	defaultPeriodMonths int
	tracer              *trace.Middleware

	appMetrics appMetrics
}

type appMetrics struct {
	expensesCreated int64
	reportsBuilt    int64
	reportsExported int64
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithExporter wires the report exporter; without it the export endpoint
// answers 503.
func WithExporter(exporter sheets.ReportExporter) Option {
	return func(s *Server) { s.exporter = exporter }
}

// WithDefaultPeriodMonths overrides how far back the stats default period
// reaches (default 3, as the expense views historically showed).
func WithDefaultPeriodMonths(months int) Option {
	return func(s *Server) {
		if months > 0 {
			s.defaultPeriodMonths = months
		}
	}
}

func NewServer(addr string, expWriter ExpenseWriter, expReader ExpenseReader, fuelStore FuelStore, opts ...Option) *Server {
	s := &Server{
		expWriter:           expWriter,
		expReader:           expReader,
		fuelStore:           fuelStore,
		defaultPeriodMonths: 3,
		tracer:              trace.NewMiddleware(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleHealthz)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/update", s.handleUpdateExpense)
	mux.HandleFunc("/api/expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("/api/expenses/weeks", s.handleListWeeks)
	mux.HandleFunc("/api/expenses/stats", s.handleExpenseStats)
	mux.HandleFunc("/api/expenses/stats/export", s.handleExportStats)

	mux.HandleFunc("/api/vehicles", s.handleCreateVehicle)
	mux.HandleFunc("/api/vehicles/delete", s.handleDeleteVehicle)
	mux.HandleFunc("/api/vehicles/fuel/stats", s.handleFuelStats)
	mux.HandleFunc("/api/fuel-logs", s.handleCreateFuelLog)

	s.Addr = addr
	s.Handler = s.tracer.Middleware(mux)
	return s
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]int64{
		"total_requests":   m.TotalRequests,
		"total_errors":     m.TotalErrors,
		"expenses_created": atomic.LoadInt64(&s.appMetrics.expensesCreated),
		"reports_built":    atomic.LoadInt64(&s.appMetrics.reportsBuilt),
		"reports_exported": atomic.LoadInt64(&s.appMetrics.reportsExported),
	})
}

// defaultPeriod is the stats range used when the caller sends none: from the
// first day of the month defaultPeriodMonths ago through the last day of the
// current month.
func (s *Server) defaultPeriod(now time.Time) reporting.Period {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -s.defaultPeriodMonths, 0)
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1)
	return reporting.Period{
		From: core.Date{Time: from},
		To:   core.Date{Time: to},
	}
}
