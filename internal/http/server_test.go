package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/sheets/memory"
	"bilancio/internal/storage"
)

type fakeExpenseStore struct {
	expenses   []core.ExpenseRecord
	weeks      []string
	nextID     int64
	lastFilter storage.ExpenseFilter
	deleted    []int64
}

func (f *fakeExpenseStore) CreateExpense(ctx context.Context, e core.ExpenseRecord) (int64, error) {
	f.nextID++
	e.ID = f.nextID
	e.WeekIdentifier = core.WeekIdentifier(e.Date)
	f.expenses = append(f.expenses, e)
	return e.ID, nil
}

func (f *fakeExpenseStore) UpdateExpense(ctx context.Context, e core.ExpenseRecord) error {
	for i := range f.expenses {
		if f.expenses[i].ID == e.ID {
			e.WeekIdentifier = core.WeekIdentifier(e.Date)
			f.expenses[i] = e
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeExpenseStore) DeleteExpense(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeExpenseStore) GetExpense(ctx context.Context, id int64) (core.ExpenseRecord, error) {
	for _, e := range f.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.ExpenseRecord{}, sql.ErrNoRows
}

func (f *fakeExpenseStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]core.ExpenseRecord, error) {
	f.lastFilter = filter
	var out []core.ExpenseRecord
	for _, e := range f.expenses {
		if e.UserID == filter.UserID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) ListWeeks(ctx context.Context, userID int64) ([]string, error) {
	return f.weeks, nil
}

type fakeFuelStore struct {
	vehicles int64
	logs     []core.FuelLogRecord
	deleted  []int64
}

func (f *fakeFuelStore) CreateVehicle(ctx context.Context, v core.Vehicle) (int64, error) {
	f.vehicles++
	return f.vehicles, nil
}

func (f *fakeFuelStore) DeleteVehicle(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFuelStore) CreateFuelLog(ctx context.Context, l core.FuelLogRecord) (int64, error) {
	l.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, l)
	return l.ID, nil
}

func (f *fakeFuelStore) ListFuelLogs(ctx context.Context, vehicleID int64) ([]core.FuelLogRecord, error) {
	var out []core.FuelLogRecord
	for _, l := range f.logs {
		if l.VehicleID == vehicleID {
			out = append(out, l)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *fakeExpenseStore, *fakeFuelStore) {
	t.Helper()
	expenses := &fakeExpenseStore{}
	fuel := &fakeFuelStore{}
	return NewServer(":0", expenses, expenses, fuel, opts...), expenses, fuel
}

func doJSON(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateExpenseDerivesWeek(t *testing.T) {
	srv, store, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses",
		`{"user_id":1,"category":"food","date":"2025-10-06","amount":"12,50","description":"groceries"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp expenseResponse
	decodeBody(t, rec, &resp)
	if resp.WeekIdentifier != "2025-W41" {
		t.Errorf("week = %q, want 2025-W41", resp.WeekIdentifier)
	}
	if resp.Amount != 12.50 {
		t.Errorf("amount = %v, want 12.50", resp.Amount)
	}
	if len(store.expenses) != 1 || store.expenses[0].Amount.Cents != 1250 {
		t.Fatalf("stored = %+v", store.expenses)
	}
}

func TestCreateExpenseRejectsBadInput(t *testing.T) {
	srv, _, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed date", `{"user_id":1,"date":"06/10/2025","amount":"10"}`},
		{"zero amount", `{"user_id":1,"date":"2025-10-06","amount":"0"}`},
		{"negative amount", `{"user_id":1,"date":"2025-10-06","amount":"-5"}`},
		{"missing user", `{"date":"2025-10-06","amount":"10"}`},
		{"unknown field", `{"user_id":1,"date":"2025-10-06","amount":"10","bogus":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/expenses", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateExpenseNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/expenses/update",
		`{"id":99,"user_id":1,"date":"2025-10-06","amount":"10"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateExpenseRecomputesWeek(t *testing.T) {
	srv, store, _ := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/expenses",
		`{"user_id":1,"date":"2025-10-06","amount":"10"}`)

	rec := doJSON(t, srv, http.MethodPut, "/api/expenses/update",
		`{"id":1,"user_id":1,"date":"2025-10-13","amount":"10"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := store.expenses[0].WeekIdentifier; got != "2025-W42" {
		t.Errorf("stored week = %q, want 2025-W42", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv, store, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/expenses/delete?id=7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("deleted = %v", store.deleted)
	}
}

func TestListWeeksEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses/weeks?user_id=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Weeks []string `json:"weeks"`
	}
	decodeBody(t, rec, &resp)
	if resp.Weeks == nil || len(resp.Weeks) != 0 {
		t.Fatalf("weeks = %#v, want empty list", resp.Weeks)
	}
}

func seedOctoberExpenses(t *testing.T, srv *Server) {
	t.Helper()
	bodies := []string{
		`{"user_id":1,"category":"food","store":"Esselunga","date":"2025-10-06","amount":"50.00"}`,
		`{"user_id":1,"category":"food","store":"Esselunga","date":"2025-10-08","amount":"30.00"}`,
		`{"user_id":1,"date":"2025-10-15","amount":"20.00"}`,
	}
	for _, b := range bodies {
		if rec := doJSON(t, srv, http.MethodPost, "/api/expenses", b); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", rec.Code, rec.Body.String())
		}
	}
}

func TestExpenseStatsReport(t *testing.T) {
	srv, _, _ := newTestServer(t)
	seedOctoberExpenses(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses/stats?user_id=1&from=2025-10-01&to=2025-10-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp statsReportResponse
	decodeBody(t, rec, &resp)
	if resp.TotalAmount != 100.0 || resp.TotalCount != 3 {
		t.Fatalf("totals = %v / %d", resp.TotalAmount, resp.TotalCount)
	}
	if len(resp.CategoryStats) != 2 {
		t.Fatalf("category stats = %+v", resp.CategoryStats)
	}
	if resp.CategoryStats[0].Name != "food" || resp.CategoryStats[0].Total != 80.0 {
		t.Errorf("top category = %+v", resp.CategoryStats[0])
	}
	if resp.CategoryStats[1].Name != "Non categorizzato" || resp.CategoryStats[1].Total != 20.0 {
		t.Errorf("placeholder category = %+v", resp.CategoryStats[1])
	}
	if len(resp.WeeklyStats) != 2 ||
		resp.WeeklyStats[0].Name != "2025-W41" || resp.WeeklyStats[1].Name != "2025-W42" {
		t.Errorf("weekly stats = %+v", resp.WeeklyStats)
	}
	if resp.Period.From != "2025-10-01" || resp.Period.To != "2025-10-31" {
		t.Errorf("period = %+v", resp.Period)
	}
}

func TestExpenseStatsInvertedPeriod(t *testing.T) {
	srv, _, _ := newTestServer(t)
	seedOctoberExpenses(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses/stats?user_id=1&from=2025-10-31&to=2025-10-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp statsReportResponse
	decodeBody(t, rec, &resp)
	if resp.TotalCount != 0 || resp.TotalAmount != 0 {
		t.Errorf("inverted period must yield empty report, got %+v", resp)
	}
	if resp.Period.From != "2025-10-31" || resp.Period.To != "2025-10-01" {
		t.Errorf("period must be echoed as sent, got %+v", resp.Period)
	}
}

func TestExpenseStatsMalformedDate(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses/stats?user_id=1&from=next-tuesday&to=2025-10-31", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportStatsWithoutExporter(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses/stats/export?user_id=1", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestExportStats(t *testing.T) {
	exporter := memory.New()
	srv, _, _ := newTestServer(t, WithExporter(exporter))
	seedOctoberExpenses(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses/stats/export?user_id=1&from=2025-10-01&to=2025-10-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ExportedTo string `json:"exported_to"`
	}
	decodeBody(t, rec, &resp)
	if resp.ExportedTo != "mem:1" {
		t.Errorf("exported_to = %q", resp.ExportedTo)
	}
	if got := len(exporter.Reports); got != 1 {
		t.Fatalf("exported reports = %d", got)
	}
}

func TestCreateVehicleValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/vehicles", `{"user_id":1,"model":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFuelStats(t *testing.T) {
	srv, _, fuel := newTestServer(t)

	if rec := doJSON(t, srv, http.MethodPost, "/api/vehicles", `{"user_id":1,"model":"Panda"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create vehicle: %d", rec.Code)
	}
	logs := []string{
		`{"vehicle_id":1,"date":"2025-10-01","amount":"60.00","liters":40,"km_travelled":600}`,
		`{"vehicle_id":1,"date":"2025-10-20","amount":"60.00","liters":30,"km_travelled":450}`,
	}
	for _, b := range logs {
		if rec := doJSON(t, srv, http.MethodPost, "/api/fuel-logs", b); rec.Code != http.StatusCreated {
			t.Fatalf("create fuel log: %d %s", rec.Code, rec.Body.String())
		}
	}
	if len(fuel.logs) != 2 {
		t.Fatalf("stored logs = %d", len(fuel.logs))
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/vehicles/fuel/stats?vehicle_id=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp fuelReportResponse
	decodeBody(t, rec, &resp)
	if resp.TotalAmount != 120.0 || resp.TotalLiters != 70.0 || resp.TotalKm != 1050.0 {
		t.Fatalf("totals = %+v", resp)
	}
	if resp.AvgKmPerLiter == nil || *resp.AvgKmPerLiter != 15.0 {
		t.Errorf("avg km/l = %v, want 15", resp.AvgKmPerLiter)
	}
	if resp.AvgCostPerKm == nil || *resp.AvgCostPerKm != 0.114 {
		t.Errorf("avg cost/km = %v, want 0.114", resp.AvgCostPerKm)
	}
	if len(resp.Logs) != 2 || resp.Logs[0].KmPerLiter == nil || *resp.Logs[0].KmPerLiter != 15.0 {
		t.Errorf("logs = %+v", resp.Logs)
	}
}

func TestCreateFuelLogPartialData(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/fuel-logs",
		`{"vehicle_id":1,"date":"2025-10-01","liters":35.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp fuelLogResponse
	decodeBody(t, rec, &resp)
	if resp.Amount != nil || resp.KmPerLiter != nil || resp.CostPerKm != nil {
		t.Errorf("missing data must yield null ratios: %+v", resp)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/expenses/stats?user_id=1", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestMetricsCounters(t *testing.T) {
	srv, _, _ := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/expenses",
		`{"user_id":1,"date":"2025-10-06","amount":"10"}`)
	doJSON(t, srv, http.MethodGet, "/api/expenses/stats?user_id=1", "")

	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var m map[string]int64
	decodeBody(t, rec, &m)
	if m["expenses_created"] != 1 {
		t.Errorf("expenses_created = %d", m["expenses_created"])
	}
	if m["reports_built"] != 1 {
		t.Errorf("reports_built = %d", m["reports_built"])
	}
	if m["total_requests"] != 3 {
		t.Errorf("total_requests = %d", m["total_requests"])
	}
}
