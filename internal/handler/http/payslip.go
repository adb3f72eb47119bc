package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayslipHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	MarkAvailable(w http.ResponseWriter, r *http.Request)
	MarkDownloaded(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	ListByPeriod(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	snapshotService payslip.SnapshotService
}

func NewPayslipHandler(snapshotService payslip.SnapshotService) PayslipHandler {
	return &payslipHandlerImpl{snapshotService: snapshotService}
}

func (h *payslipHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	snap, err := h.snapshotService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToSnapshotResponse(snap))
}

func (h *payslipHandlerImpl) MarkAvailable(w http.ResponseWriter, r *http.Request) {
	var req payslip.MarkAvailableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	snap, err := h.snapshotService.MarkAvailable(r.Context(), chi.URLParam(r, "id"), req.DocumentURL)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToSnapshotResponse(snap))
}

func (h *payslipHandlerImpl) MarkDownloaded(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	snap, err := h.snapshotService.MarkDownloaded(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToSnapshotResponse(snap))
}

func (h *payslipHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.snapshotService.FindByUser(r.Context(), chi.URLParam(r, "userID"), parseSnapshotFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Snapshots, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payslipHandlerImpl) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.snapshotService.FindByPeriod(r.Context(), chi.URLParam(r, "periodID"), parseSnapshotFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Snapshots, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func parseSnapshotFilter(r *http.Request) payslip.Filter {
	var filter payslip.Filter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if countryID := q.Get("country_id"); countryID != "" {
		filter.CountryID = &countryID
	}
	if from := q.Get("from"); from != "" {
		filter.From = &from
	}
	if to := q.Get("to"); to != "" {
		filter.To = &to
	}

	// Bad numbers fall back to the defaults applied by Filter.Validate
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}
