package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/contribution"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ContributionHandler interface {
	YTDSummary(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
}

type contributionHandlerImpl struct {
	contributionService contribution.ContributionService
}

func NewContributionHandler(contributionService contribution.ContributionService) ContributionHandler {
	return &contributionHandlerImpl{contributionService: contributionService}
}

// YTDSummary reads country_id, start_date and end_date from the query string.
func (h *contributionHandlerImpl) YTDSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := contribution.SummaryRequest{
		UserID:    chi.URLParam(r, "userID"),
		CountryID: q.Get("country_id"),
		DateRange: contribution.DateRange{
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
		},
	}

	result, err := h.contributionService.YTDSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, contribution.ToSummaryResponse(result))
}

func (h *contributionHandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	var req contribution.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")

	result, err := h.contributionService.Compare(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, contribution.ToComparisonResponse(result))
}
