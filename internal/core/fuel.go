package core

import "math"

// KmPerLiter derives fuel efficiency (km travelled per liter) for a refuel.
// Returns nil when either input is missing or liters is not positive; missing
// data is expected and never an error. The result is rounded to 2 decimal
// places, half away from zero, matching the precision shown to users.
func (f FuelLogRecord) KmPerLiter() *float64 {
	if f.KmTravelled == nil || f.Liters == nil || *f.Liters <= 0 {
		return nil
	}
	v := roundTo(*f.KmTravelled / *f.Liters, 2)
	return &v
}

// CostPerKm derives the cost in euros per km travelled for a refuel. Returns
// nil when amount or distance is missing or distance is not positive. Rounded
// to 3 decimal places, half away from zero.
func (f FuelLogRecord) CostPerKm() *float64 {
	if f.Amount == nil || f.KmTravelled == nil || *f.KmTravelled <= 0 {
		return nil
	}
	v := roundTo(f.Amount.Euros() / *f.KmTravelled, 3)
	return &v
}

// roundTo rounds half away from zero at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
