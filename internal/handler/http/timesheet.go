package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

// TimesheetHandler exposes the pure pay calculator for what-if checks.
type TimesheetHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	ValidateHours(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	calculator timesheet.PayCalculator
}

func NewTimesheetHandler(calculator timesheet.PayCalculator) TimesheetHandler {
	return &timesheetHandlerImpl{calculator: calculator}
}

func (h *timesheetHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.calculator.Calculate(req.CountryCode, req.BasicSalary, req.Hours)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timesheetHandlerImpl) ValidateHours(w http.ResponseWriter, r *http.Request) {
	var req timesheet.ValidateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, h.calculator.ValidateHours(req.CountryCode, req.RegularHours, req.OvertimeHours, req.DoubleOvertime))
}
