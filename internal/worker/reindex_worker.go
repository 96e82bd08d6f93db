package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// ExpenseStore is the slice of storage the worker needs.
type ExpenseStore interface {
	GetExpense(ctx context.Context, id int64) (core.ExpenseRecord, error)
	UpdateWeekIdentifier(ctx context.Context, id int64, week string) error
}

// ReindexWorker keeps the persisted week_identifier column equal to
// WeekIdentifier(date). Writers publish a reindex message after every insert
// or date update; the worker re-reads the row and repairs any divergence, so
// the invariant holds even if a write path forgot to recompute.
type ReindexWorker struct {
	store ExpenseStore
}

func NewReindexWorker(store ExpenseStore) *ReindexWorker {
	return &ReindexWorker{store: store}
}

// HandleReindexMessage processes a single reindex request.
func (w *ReindexWorker) HandleReindexMessage(ctx context.Context, msg *amqp.WeekReindexMessage) error {
	expense, err := w.store.GetExpense(ctx, msg.ExpenseID)
	if err != nil {
		return fmt.Errorf("get expense %d: %w", msg.ExpenseID, err)
	}

	expected := core.WeekIdentifier(expense.Date)
	if expense.WeekIdentifier == expected {
		slog.DebugContext(ctx, "Week identifier already consistent",
			"expense_id", expense.ID,
			"week_identifier", expected)
		return nil
	}

	if err := w.store.UpdateWeekIdentifier(ctx, expense.ID, expected); err != nil {
		return fmt.Errorf("update week identifier for %d: %w", expense.ID, err)
	}

	slog.InfoContext(ctx, "Repaired diverged week identifier",
		"expense_id", expense.ID,
		"stored", expense.WeekIdentifier,
		"week_identifier", expected)
	return nil
}
