package reporting

import (
	"sort"

	"bilancio/internal/core"
)

// FuelLogEntry is one refuel enriched with its derived ratios for display.
type FuelLogEntry struct {
	Log        core.FuelLogRecord
	KmPerLiter *float64
	CostPerKm  *float64
}

// FuelReport summarizes the refuel history of a single vehicle: the log
// series in date order with per-record ratios, plus overall totals and the
// vehicle-level efficiency derived from them. Like the expense report it is
// built per request and discarded.
type FuelReport struct {
	VehicleID     int64
	Entries       []FuelLogEntry
	TotalAmount   core.Money
	TotalLiters   float64
	TotalKm       float64
	AvgKmPerLiter *float64
	AvgCostPerKm  *float64
}

// BuildFuelReport assembles the fuel statistics view from a vehicle's logs.
// Totals only accumulate the fields a record actually carries; the overall
// ratios come from those totals and are nil when the denominator is zero,
// same guard as the per-record calculators.
func BuildFuelReport(vehicleID int64, logs []core.FuelLogRecord) FuelReport {
	report := FuelReport{VehicleID: vehicleID}

	ordered := make([]core.FuelLogRecord, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	for _, l := range ordered {
		report.Entries = append(report.Entries, FuelLogEntry{
			Log:        l,
			KmPerLiter: l.KmPerLiter(),
			CostPerKm:  l.CostPerKm(),
		})
		if l.Amount != nil {
			report.TotalAmount.Cents += l.Amount.Cents
		}
		if l.Liters != nil {
			report.TotalLiters += *l.Liters
		}
		if l.KmTravelled != nil {
			report.TotalKm += *l.KmTravelled
		}
	}

	// Zero totals mean "no data", not a zero ratio: leave the field unset so
	// the overall calculators return nil instead of 0.
	overall := core.FuelLogRecord{}
	if report.TotalAmount.Cents > 0 {
		overall.Amount = &report.TotalAmount
	}
	if report.TotalLiters > 0 {
		overall.Liters = &report.TotalLiters
	}
	if report.TotalKm > 0 {
		overall.KmTravelled = &report.TotalKm
	}
	report.AvgKmPerLiter = overall.KmPerLiter()
	report.AvgCostPerKm = overall.CostPerKm()
	return report
}
