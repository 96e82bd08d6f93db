package http

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

type expenseRequest struct {
	ID          int64  `json:"id,omitempty"`
	UserID      int64  `json:"user_id"`
	Store       string `json:"store"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// toRecord validates and converts the wire request into a domain record.
// Amounts arrive as decimal strings ("12.50" or "12,50") and are stored as
// cents from here on.
func (req expenseRequest) toRecord() (core.ExpenseRecord, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.ExpenseRecord{}, core.ErrInvalidDate
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	e := core.ExpenseRecord{
		ID:          req.ID,
		UserID:      req.UserID,
		Store:       sanitizeInput(req.Store),
		Category:    sanitizeInput(req.Category),
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
		Notes:       sanitizeInput(req.Notes),
	}
	if err := e.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}
	return e, nil
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	e, err := req.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.expWriter.CreateExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	atomic.AddInt64(&s.appMetrics.expensesCreated, 1)

	e.ID = id
	e.WeekIdentifier = core.WeekIdentifier(e.Date)
	writeJSON(w, http.StatusCreated, buildExpenseResponse(e))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, ok := parseID(q.Get("user_id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid user_id")
		return
	}

	filter := storage.ExpenseFilter{
		UserID:   userID,
		Category: sanitizeInput(q.Get("category")),
		Store:    sanitizeInput(q.Get("store")),
		Week:     sanitizeInput(q.Get("week")),
	}
	if v := q.Get("from"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		filter.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		filter.To = d
	}

	records, err := s.expReader.ListExpenses(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	out := make([]expenseResponse, 0, len(records))
	for _, e := range records {
		out = append(out, buildExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out, "count": len(out)})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		methodNotAllowed(w, "POST, PUT")
		return
	}

	var req expenseRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "missing expense id")
		return
	}
	e, err := req.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.expWriter.UpdateExpense(r.Context(), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "expense_id", e.ID)
		writeError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	e.WeekIdentifier = core.WeekIdentifier(e.Date)
	writeJSON(w, http.StatusOK, buildExpenseResponse(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST, DELETE")
		return
	}
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid id")
		return
	}
	if err := s.expWriter.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	userID, ok := parseID(r.URL.Query().Get("user_id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid user_id")
		return
	}
	weeks, err := s.expReader.ListWeeks(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list weeks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list weeks")
		return
	}
	if weeks == nil {
		weeks = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
}
