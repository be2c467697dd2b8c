package handler

import (
	"net/http"

	"github.com/loancore/loan-engine/internal/service"
	"github.com/loancore/loan-engine/pkg/response"
)

type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// GetLoanSummary handles GET /stats/loans
func (h *StatsHandler) GetLoanSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetLoanSummary(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetDisbursedVsPaid handles GET /stats/disbursed-vs-paid
func (h *StatsHandler) GetDisbursedVsPaid(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDisbursedVsPaid(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, stats)
}

// GetPaymentSummary handles GET /stats/payments
func (h *StatsHandler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetPortfolioPaymentSummary(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, summary)
}
