package services

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// ExpenseWriter is the storage slice the service writes through.
type ExpenseWriter interface {
	CreateExpense(ctx context.Context, e core.ExpenseRecord) (int64, error)
	UpdateExpense(ctx context.Context, e core.ExpenseRecord) error
	DeleteExpense(ctx context.Context, id int64) error
}

// ReindexPublisher enqueues week reindex requests. Nil-safe at the call
// sites: the service works without a broker, it just skips the messages.
type ReindexPublisher interface {
	PublishWeekReindex(ctx context.Context, expenseID int64) error
}

// ExpenseService orchestrates expense writes across SQLite and AMQP: every
// write that can move a record's date also queues a week reindex check, so
// the persisted week identifier gets a second, asynchronous guarantee on top
// of the store's own write-time derivation.
type ExpenseService struct {
	store     ExpenseWriter
	publisher ReindexPublisher
}

var _ ExpenseWriter = (*storage.SQLiteRepository)(nil)

func NewExpenseService(store ExpenseWriter, publisher ReindexPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

// CreateExpense saves an expense and queues its reindex check.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.ExpenseRecord) (int64, error) {
	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	// Best effort: the row is saved either way, and the store already
	// derived the week identifier at write time.
	s.publishReindex(ctx, id)
	return id, nil
}

// UpdateExpense rewrites an expense and queues its reindex check. The date
// may have changed, which is exactly the mutation the check exists for.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.ExpenseRecord) error {
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publishReindex(ctx, e.ID)
	return nil
}

// DeleteExpense removes an expense. Nothing to reindex afterwards.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) publishReindex(ctx context.Context, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No reindex publisher configured, skipping message", "expense_id", id)
		return
	}
	if err := s.publisher.PublishWeekReindex(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish reindex message",
			"expense_id", id, "error", err)
	}
}
