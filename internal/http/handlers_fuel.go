package http

import (
	"log/slog"
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/reporting"
)

type vehicleRequest struct {
	UserID      int64  `json:"user_id"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number"`
}

type fuelLogRequest struct {
	VehicleID     int64    `json:"vehicle_id"`
	Date          string   `json:"date"`
	Amount        string   `json:"amount,omitempty"`
	Liters        *float64 `json:"liters,omitempty"`
	PricePerLiter *float64 `json:"price_per_liter,omitempty"`
	KmTravelled   *float64 `json:"km_travelled,omitempty"`
	Notes         string   `json:"notes"`
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req vehicleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	v := core.Vehicle{
		UserID:      req.UserID,
		Model:       sanitizeInput(req.Model),
		PlateNumber: sanitizeInput(req.PlateNumber),
	}
	if err := v.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.fuelStore.CreateVehicle(r.Context(), v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create vehicle", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}
	v.ID = id
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           v.ID,
		"user_id":      v.UserID,
		"model":        v.Model,
		"plate_number": v.PlateNumber,
	})
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		methodNotAllowed(w, "POST, DELETE")
		return
	}
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid id")
		return
	}
	if err := s.fuelStore.DeleteVehicle(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete vehicle", "error", err, "vehicle_id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleCreateFuelLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req fuelLogRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, core.ErrInvalidDate.Error())
		return
	}
	f := core.FuelLogRecord{
		VehicleID:     req.VehicleID,
		Date:          date,
		Liters:        req.Liters,
		PricePerLiter: req.PricePerLiter,
		KmTravelled:   req.KmTravelled,
		Notes:         sanitizeInput(req.Notes),
	}
	if req.Amount != "" {
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Amount = &core.Money{Cents: cents}
	}
	if err := f.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.fuelStore.CreateFuelLog(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create fuel log", "error", err, "vehicle_id", f.VehicleID)
		writeError(w, http.StatusInternalServerError, "failed to create fuel log")
		return
	}
	f.ID = id

	resp := fuelLogResponse{
		ID:            f.ID,
		VehicleID:     f.VehicleID,
		Date:          f.Date.String(),
		Liters:        f.Liters,
		PricePerLiter: f.PricePerLiter,
		KmTravelled:   f.KmTravelled,
		KmPerLiter:    f.KmPerLiter(),
		CostPerKm:     f.CostPerKm(),
		Notes:         f.Notes,
	}
	if f.Amount != nil {
		euros := f.Amount.Euros()
		resp.Amount = &euros
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFuelStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	vehicleID, ok := parseID(r.URL.Query().Get("vehicle_id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid vehicle_id")
		return
	}

	logs, err := s.fuelStore.ListFuelLogs(r.Context(), vehicleID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list fuel logs", "error", err, "vehicle_id", vehicleID)
		writeError(w, http.StatusInternalServerError, "failed to build fuel report")
		return
	}

	report := reporting.BuildFuelReport(vehicleID, logs)
	writeJSON(w, http.StatusOK, buildFuelReportResponse(report))
}
