package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CurrencyHandler interface {
	// Currencies
	ListCurrencies(w http.ResponseWriter, r *http.Request)
	GetCurrency(w http.ResponseWriter, r *http.Request)
	CreateCurrency(w http.ResponseWriter, r *http.Request)
	UpdateCurrency(w http.ResponseWriter, r *http.Request)
	DeactivateCurrency(w http.ResponseWriter, r *http.Request)

	// Exchange rates
	ListRates(w http.ResponseWriter, r *http.Request)
	CreateRate(w http.ResponseWriter, r *http.Request)
	DeactivateRate(w http.ResponseWriter, r *http.Request)
	Convert(w http.ResponseWriter, r *http.Request)
	AuditRates(w http.ResponseWriter, r *http.Request)
}

type currencyHandlerImpl struct {
	currencyService currency.CurrencyService
}

func NewCurrencyHandler(currencyService currency.CurrencyService) CurrencyHandler {
	return &currencyHandlerImpl{currencyService: currencyService}
}

// ========== CURRENCIES ==========

func (h *currencyHandlerImpl) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.currencyService.ListCurrencies(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]currency.CurrencyResponse, 0, len(result))
	for _, c := range result {
		resp = append(resp, currency.ToCurrencyResponse(c))
	}
	response.Success(w, resp)
}

func (h *currencyHandlerImpl) GetCurrency(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Currency code is required", nil)
		return
	}

	result, err := h.currencyService.GetCurrency(r.Context(), currency.NormalizeCode(code))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, currency.ToCurrencyResponse(result))
}

func (h *currencyHandlerImpl) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req currency.CreateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.currencyService.CreateCurrency(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Currency created", currency.ToCurrencyResponse(result))
}

func (h *currencyHandlerImpl) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Currency code is required", nil)
		return
	}

	var req currency.UpdateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Code = code

	result, err := h.currencyService.UpdateCurrency(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, currency.ToCurrencyResponse(result))
}

func (h *currencyHandlerImpl) DeactivateCurrency(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Currency code is required", nil)
		return
	}

	if err := h.currencyService.DeactivateCurrency(r.Context(), currency.NormalizeCode(code)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Currency deactivated successfully", nil)
}

// ========== EXCHANGE RATES ==========

func (h *currencyHandlerImpl) ListRates(w http.ResponseWriter, r *http.Request) {
	filter := currency.RateFilter{
		FromCurrency: currency.NormalizeCode(r.URL.Query().Get("from")),
		ToCurrency:   currency.NormalizeCode(r.URL.Query().Get("to")),
		ActiveOnly:   r.URL.Query().Get("active_only") == "true",
	}

	result, err := h.currencyService.ListRates(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]currency.ExchangeRateResponse, 0, len(result))
	for _, er := range result {
		resp = append(resp, currency.ToExchangeRateResponse(er))
	}
	response.Success(w, resp)
}

func (h *currencyHandlerImpl) CreateRate(w http.ResponseWriter, r *http.Request) {
	var req currency.CreateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.currencyService.CreateRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Exchange rate created", currency.ToExchangeRateResponse(result))
}

func (h *currencyHandlerImpl) DeactivateRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Exchange rate ID is required", nil)
		return
	}

	if err := h.currencyService.DeactivateRate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Exchange rate deactivated successfully", nil)
}

func (h *currencyHandlerImpl) Convert(w http.ResponseWriter, r *http.Request) {
	var req currency.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.currencyService.Convert(r.Context(), req.Amount, req.FromCurrency, req.ToCurrency, req.AsOfValue())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, currency.ToConversionResponse(result))
}

func (h *currencyHandlerImpl) AuditRates(w http.ResponseWriter, r *http.Request) {
	gaps, err := h.currencyService.AuditRates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]currency.RateGapResponse, 0, len(gaps))
	for _, g := range gaps {
		resp = append(resp, currency.RateGapResponse{
			FromCurrency:      g.FromCurrency,
			ToCurrency:        g.ToCurrency,
			NextEffectiveDate: g.NextEffectiveDate.Format("2006-01-02"),
		})
	}
	response.Success(w, resp)
}
