package http

import (
	"bilancio/internal/core"
	"bilancio/internal/reporting"
)

// Wire shapes. Money travels as euros; the cents representation stays
// internal.
type (
	groupStatResponse struct {
		Name    string  `json:"name"`
		Total   float64 `json:"total"`
		Count   int     `json:"count"`
		Average float64 `json:"average"`
	}

	periodResponse struct {
		From string `json:"from"`
		To   string `json:"to"`
	}

	statsReportResponse struct {
		Period        periodResponse      `json:"period"`
		TotalAmount   float64             `json:"total_amount"`
		TotalCount    int                 `json:"total_count"`
		AverageAmount float64             `json:"average_amount"`
		CategoryStats []groupStatResponse `json:"category_stats"`
		StoreStats    []groupStatResponse `json:"store_stats"`
		WeeklyStats   []groupStatResponse `json:"weekly_stats"`
	}

	expenseResponse struct {
		ID             int64   `json:"id"`
		UserID         int64   `json:"user_id"`
		Store          string  `json:"store,omitempty"`
		Category       string  `json:"category,omitempty"`
		Date           string  `json:"date"`
		WeekIdentifier string  `json:"week_identifier"`
		Amount         float64 `json:"amount"`
		Description    string  `json:"description,omitempty"`
		Notes          string  `json:"notes,omitempty"`
	}

	fuelLogResponse struct {
		ID            int64    `json:"id"`
		VehicleID     int64    `json:"vehicle_id"`
		Date          string   `json:"date"`
		Amount        *float64 `json:"amount"`
		Liters        *float64 `json:"liters"`
		PricePerLiter *float64 `json:"price_per_liter"`
		KmTravelled   *float64 `json:"km_travelled"`
		KmPerLiter    *float64 `json:"km_per_liter"`
		CostPerKm     *float64 `json:"cost_per_km"`
		Notes         string   `json:"notes,omitempty"`
	}

	fuelReportResponse struct {
		VehicleID     int64             `json:"vehicle_id"`
		Logs          []fuelLogResponse `json:"logs"`
		TotalAmount   float64           `json:"total_amount"`
		TotalLiters   float64           `json:"total_liters"`
		TotalKm       float64           `json:"total_km"`
		AvgKmPerLiter *float64          `json:"avg_km_per_liter"`
		AvgCostPerKm  *float64          `json:"avg_cost_per_km"`
	}
)

func buildGroupStats(stats []reporting.GroupStat) []groupStatResponse {
	out := make([]groupStatResponse, len(stats))
	for i, g := range stats {
		out[i] = groupStatResponse{
			Name:    g.Label,
			Total:   g.Total.Euros(),
			Count:   g.Count,
			Average: g.Average / 100.0,
		}
	}
	return out
}

func buildStatsReportResponse(report reporting.Report) statsReportResponse {
	return statsReportResponse{
		Period: periodResponse{
			From: report.Period.From.String(),
			To:   report.Period.To.String(),
		},
		TotalAmount:   report.TotalAmount.Euros(),
		TotalCount:    report.TotalCount,
		AverageAmount: report.AverageAmount / 100.0,
		CategoryStats: buildGroupStats(report.ByCategory),
		StoreStats:    buildGroupStats(report.ByStore),
		WeeklyStats:   buildGroupStats(report.ByWeek),
	}
}

func buildExpenseResponse(e core.ExpenseRecord) expenseResponse {
	return expenseResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		Store:          e.Store,
		Category:       e.Category,
		Date:           e.Date.String(),
		WeekIdentifier: e.WeekIdentifier,
		Amount:         e.Amount.Euros(),
		Description:    e.Description,
		Notes:          e.Notes,
	}
}

func buildFuelReportResponse(report reporting.FuelReport) fuelReportResponse {
	resp := fuelReportResponse{
		VehicleID:     report.VehicleID,
		Logs:          make([]fuelLogResponse, len(report.Entries)),
		TotalAmount:   report.TotalAmount.Euros(),
		TotalLiters:   report.TotalLiters,
		TotalKm:       report.TotalKm,
		AvgKmPerLiter: report.AvgKmPerLiter,
		AvgCostPerKm:  report.AvgCostPerKm,
	}
	for i, entry := range report.Entries {
		l := entry.Log
		resp.Logs[i] = fuelLogResponse{
			ID:            l.ID,
			VehicleID:     l.VehicleID,
			Date:          l.Date.String(),
			Liters:        l.Liters,
			PricePerLiter: l.PricePerLiter,
			KmTravelled:   l.KmTravelled,
			KmPerLiter:    entry.KmPerLiter,
			CostPerKm:     entry.CostPerKm,
			Notes:         l.Notes,
		}
		if l.Amount != nil {
			euros := l.Amount.Euros()
			resp.Logs[i].Amount = &euros
		}
	}
	return resp
}
