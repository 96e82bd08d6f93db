package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{
		UserID:   1,
		Date:     NewDate(2025, 10, 6),
		Amount:   Money{Cents: 5000},
		Category: "Spesa",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Persisted week identifier must match the date.
	withWeek := good
	withWeek.WeekIdentifier = "2025-W41"
	if err := withWeek.Validate(); err != nil {
		t.Fatalf("matching week identifier rejected: %v", err)
	}
	withWeek.WeekIdentifier = "2025-W40"
	if err := withWeek.Validate(); err != ErrWeekMismatch {
		t.Fatalf("expected ErrWeekMismatch, got %v", err)
	}

	bads := []ExpenseRecord{
		{UserID: 1, Amount: Money{Cents: 100}},                          // zero date
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 100}},          // no user
		{UserID: 1, Date: NewDate(2025, 1, 1), Amount: Money{Cents: 0}}, // zero amount
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFuelLogRecordValidate(t *testing.T) {
	good := FuelLogRecord{
		VehicleID: 1,
		Date:      NewDate(2025, 6, 1),
		Amount:    &Money{Cents: 6000},
		Liters:    fptr(40),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// All optional fields absent is still a valid refuel.
	bare := FuelLogRecord{VehicleID: 1, Date: NewDate(2025, 6, 1)}
	if err := bare.Validate(); err != nil {
		t.Fatalf("bare log rejected: %v", err)
	}

	if err := (FuelLogRecord{Date: NewDate(2025, 6, 1)}).Validate(); err != ErrMissingVehicle {
		t.Fatalf("expected ErrMissingVehicle, got %v", err)
	}
	if err := (FuelLogRecord{VehicleID: 1, Date: NewDate(2025, 6, 1), Liters: fptr(-1)}).Validate(); err != ErrInvalidLiters {
		t.Fatalf("expected ErrInvalidLiters, got %v", err)
	}
}
