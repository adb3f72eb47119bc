package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryComponentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type salaryComponentHandlerImpl struct {
	componentService salarycomponent.SalaryComponentService
}

func NewSalaryComponentHandler(componentService salarycomponent.SalaryComponentService) SalaryComponentHandler {
	return &salaryComponentHandlerImpl{componentService: componentService}
}

func (h *salaryComponentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salarycomponent.CreateSalaryComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CountryID = chi.URLParam(r, "countryID")

	result, err := h.componentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary component created", salarycomponent.ToResponse(result))
}

func (h *salaryComponentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Component ID is required", nil)
		return
	}

	result, err := h.componentService.Get(r.Context(), chi.URLParam(r, "countryID"), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salarycomponent.ToResponse(result))
}

func (h *salaryComponentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.componentService.ListByCountry(r.Context(), chi.URLParam(r, "countryID"), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]salarycomponent.SalaryComponentResponse, 0, len(result))
	for _, c := range result {
		resp = append(resp, salarycomponent.ToResponse(c))
	}
	response.Success(w, resp)
}

func (h *salaryComponentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req salarycomponent.UpdateSalaryComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.CountryID = chi.URLParam(r, "countryID")

	result, err := h.componentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salarycomponent.ToResponse(result))
}

func (h *salaryComponentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Component ID is required", nil)
		return
	}

	if err := h.componentService.Delete(r.Context(), chi.URLParam(r, "countryID"), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component deleted successfully", nil)
}
