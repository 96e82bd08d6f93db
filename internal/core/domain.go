package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ExpenseRecord is a single household expense. Store and Category are
	// plain labels; an empty label means the expense has none. The
	// WeekIdentifier field is persisted redundantly for query efficiency and
	// must always equal WeekIdentifier(Date); writers recompute it on every
	// date mutation.
	ExpenseRecord struct {
		ID             int64
		UserID         int64
		Store          string
		Category       string
		Date           Date
		WeekIdentifier string
		Amount         Money
		Description    string
		Notes          string
	}

	// FuelLogRecord is a single refuel of a vehicle. Amount, Liters,
	// PricePerLiter and KmTravelled are all optional: missing data is
	// expected, not exceptional. PricePerLiter is informational only and is
	// never required to equal Amount/Liters. Derived ratios are computed on
	// demand, never stored.
	FuelLogRecord struct {
		ID            int64
		VehicleID     int64
		Date          Date
		Amount        *Money
		Liters        *float64
		PricePerLiter *float64
		KmTravelled   *float64
		Notes         string
	}

	Vehicle struct {
		ID          int64
		UserID      int64
		Model       string
		PlateNumber string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrDescriptionLong = errors.New("description too long (max 255 characters)")
	ErrNotesLong       = errors.New("notes too long (max 1000 characters)")
	ErrMissingUser     = errors.New("missing owning user")
	ErrMissingVehicle  = errors.New("missing owning vehicle")
	ErrWeekMismatch    = errors.New("week identifier does not match date")
	ErrInvalidLiters   = errors.New("invalid liters")
	ErrInvalidDistance = errors.New("invalid distance")
	ErrEmptyModel      = errors.New("empty vehicle model")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e ExpenseRecord) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.UserID <= 0 {
		return ErrMissingUser
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 255 {
		return ErrDescriptionLong
	}
	if len(e.Notes) > 1000 {
		return ErrNotesLong
	}
	if e.WeekIdentifier != "" && e.WeekIdentifier != WeekIdentifier(e.Date) {
		return ErrWeekMismatch
	}
	return nil
}

func (f FuelLogRecord) Validate() error {
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if f.VehicleID <= 0 {
		return ErrMissingVehicle
	}
	if f.Amount != nil {
		if err := f.Amount.Validate(); err != nil {
			return err
		}
	}
	if f.Liters != nil && *f.Liters <= 0 {
		return ErrInvalidLiters
	}
	if f.KmTravelled != nil && *f.KmTravelled <= 0 {
		return ErrInvalidDistance
	}
	if len(f.Notes) > 1000 {
		return ErrNotesLong
	}
	return nil
}

func (v Vehicle) Validate() error {
	if v.UserID <= 0 {
		return ErrMissingUser
	}
	if strings.TrimSpace(v.Model) == "" {
		return ErrEmptyModel
	}
	return nil
}
