package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/service"
	"github.com/loancore/loan-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   loanService,
		validator: newValidator(),
	}
}

// CalculateTerms handles GET /loans/calculate?principal=&period_months=&rate=&frequency=
func (h *LoanHandler) CalculateTerms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	principal, err := decimal.NewFromString(q.Get("principal"))
	if err != nil {
		response.BadRequest(w, "invalid principal", err)
		return
	}

	periodMonths, err := strconv.Atoi(q.Get("period_months"))
	if err != nil {
		response.BadRequest(w, "invalid period_months", err)
		return
	}

	rate, err := decimal.NewFromString(q.Get("rate"))
	if err != nil {
		response.BadRequest(w, "invalid rate", err)
		return
	}

	terms, err := h.service.CalculateTerms(r.Context(), principal, periodMonths, rate, q.Get("frequency"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, terms)
}

// CreateLoan handles POST /loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, &domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

// GetLoan handles GET /loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// ListLoans handles GET /loans
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loans)
}

// GetSchedule handles GET /loans/{loanId}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

// UpdateLoan handles PUT /loans/{loanId}
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var request domain.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, schedule, err := h.service.UpdateLoanTerms(r.Context(), loanID, &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, &domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

// DeleteLoan handles DELETE /loans/{loanId}
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	if err := h.service.DeleteLoan(r.Context(), loanID); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, nil)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
