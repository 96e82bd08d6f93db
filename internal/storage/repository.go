package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository is the persistence collaborator: it owns the records and
// hands already-filtered batches to the reporting core. It is also the one
// place the week-identifier invariant is enforced at write time: every
// insert and every date mutation recomputes the column from the date.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ExpenseFilter narrows ListExpenses. The zero value lists everything for the
// user; From/To bound the date inclusively when set.
type ExpenseFilter struct {
	UserID   int64
	From     core.Date
	To       core.Date
	Category string
	Store    string
	Week     string
}

// CreateExpense inserts the expense and returns its ID. The week identifier
// is always derived from the date here, regardless of what the caller set.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.ExpenseRecord) (int64, error) {
	week := core.WeekIdentifier(e.Date)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, store, category, date, week_identifier, amount_cents, description, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Store, e.Category, e.Date.String(), week, e.Amount.Cents, e.Description, e.Notes)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create expense read id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", id,
		"amount_cents", e.Amount.Cents,
		"week_identifier", week)
	return id, nil
}

// UpdateExpense rewrites the mutable fields of an expense. The week
// identifier is recomputed from the (possibly new) date.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.ExpenseRecord) error {
	week := core.WeekIdentifier(e.Date)
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET store = ?, category = ?, date = ?, week_identifier = ?, amount_cents = ?, description = ?, notes = ?,
		     updated_at = datetime('now')
		 WHERE id = ?`,
		e.Store, e.Category, e.Date.String(), week, e.Amount.Cents, e.Description, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateWeekIdentifier repairs the persisted week column only. Used by the
// reindex worker when it finds a diverged row.
func (r *SQLiteRepository) UpdateWeekIdentifier(ctx context.Context, id int64, week string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET week_identifier = ?, updated_at = datetime('now') WHERE id = ?`,
		week, id)
	if err != nil {
		return fmt.Errorf("update week identifier: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.ExpenseRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, store, category, date, week_identifier, amount_cents, description, notes
		 FROM expenses WHERE id = ?`, id)
	return scanExpense(row)
}

// ListExpenses returns the user's expenses matching the filter, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]core.ExpenseRecord, error) {
	query := strings.Builder{}
	query.WriteString(
		`SELECT id, user_id, store, category, date, week_identifier, amount_cents, description, notes
		 FROM expenses WHERE user_id = ?`)
	args := []any{filter.UserID}

	if !filter.From.IsZero() {
		query.WriteString(" AND date >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		query.WriteString(" AND date <= ?")
		args = append(args, filter.To.String())
	}
	if filter.Category != "" {
		query.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}
	if filter.Store != "" {
		query.WriteString(" AND store = ?")
		args = append(args, filter.Store)
	}
	if filter.Week != "" {
		query.WriteString(" AND week_identifier = ?")
		args = append(args, filter.Week)
	}
	query.WriteString(" ORDER BY date DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses rows: %w", err)
	}
	return out, nil
}

// ListWeeks returns the distinct week identifiers of a user's expenses,
// newest week first. Feeds the week filter dropdown.
func (r *SQLiteRepository) ListWeeks(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT week_identifier FROM expenses WHERE user_id = ? ORDER BY week_identifier DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list weeks rows: %w", err)
	}
	return weeks, nil
}

func (r *SQLiteRepository) CreateVehicle(ctx context.Context, v core.Vehicle) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (user_id, model, plate_number) VALUES (?, ?, ?)`,
		v.UserID, v.Model, v.PlateNumber)
	if err != nil {
		return 0, fmt.Errorf("create vehicle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create vehicle read id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetVehicle(ctx context.Context, id int64) (core.Vehicle, error) {
	var v core.Vehicle
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, model, plate_number FROM vehicles WHERE id = ?`, id).
		Scan(&v.ID, &v.UserID, &v.Model, &v.PlateNumber)
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// DeleteVehicle removes the vehicle; its fuel logs go with it via the
// ON DELETE CASCADE foreign key.
func (r *SQLiteRepository) DeleteVehicle(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	slog.InfoContext(ctx, "Vehicle deleted with its fuel logs", "vehicle_id", id)
	return nil
}

func (r *SQLiteRepository) CreateFuelLog(ctx context.Context, f core.FuelLogRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fuel_logs (vehicle_id, date, amount_cents, liters, price_per_liter, km_travelled, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.VehicleID, f.Date.String(), nullCents(f.Amount), nullFloat(f.Liters),
		nullFloat(f.PricePerLiter), nullFloat(f.KmTravelled), f.Notes)
	if err != nil {
		return 0, fmt.Errorf("create fuel log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create fuel log read id: %w", err)
	}
	return id, nil
}

// ListFuelLogs returns a vehicle's refuels in date order, oldest first, the
// order the fuel report expects.
func (r *SQLiteRepository) ListFuelLogs(ctx context.Context, vehicleID int64) ([]core.FuelLogRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, date, amount_cents, liters, price_per_liter, km_travelled, notes
		 FROM fuel_logs WHERE vehicle_id = ? ORDER BY date, id`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list fuel logs: %w", err)
	}
	defer rows.Close()

	var out []core.FuelLogRecord
	for rows.Next() {
		var (
			f       core.FuelLogRecord
			dateStr string
			cents   sql.NullInt64
			liters  sql.NullFloat64
			price   sql.NullFloat64
			km      sql.NullFloat64
		)
		if err := rows.Scan(&f.ID, &f.VehicleID, &dateStr, &cents, &liters, &price, &km, &f.Notes); err != nil {
			return nil, fmt.Errorf("scan fuel log: %w", err)
		}
		d, err := parseStoredDate(dateStr)
		if err != nil {
			return nil, err
		}
		f.Date = d
		if cents.Valid {
			f.Amount = &core.Money{Cents: cents.Int64}
		}
		if liters.Valid {
			v := liters.Float64
			f.Liters = &v
		}
		if price.Valid {
			v := price.Float64
			f.PricePerLiter = &v
		}
		if km.Valid {
			v := km.Float64
			f.KmTravelled = &v
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fuel logs rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.ExpenseRecord, error) {
	var (
		e       core.ExpenseRecord
		dateStr string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Store, &e.Category, &dateStr,
		&e.WeekIdentifier, &e.Amount.Cents, &e.Description, &e.Notes)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := parseStoredDate(dateStr)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	e.Date = d
	return e, nil
}

func parseStoredDate(s string) (core.Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func nullCents(m *core.Money) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: m.Cents, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
