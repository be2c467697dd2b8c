package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/service"
	"github.com/loancore/loan-engine/pkg/response"
)

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   paymentService,
		validator: newValidator(),
	}
}

// PayInstallment handles POST /schedules/{scheduleId}/payment
func (h *PaymentHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := pathUUID(w, r, "scheduleId")
	if !ok {
		return
	}

	var request domain.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.PayInstallment(r.Context(), scheduleID, request.Amount, request.PaymentDate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// BulkPayment handles POST /loans/{loanId}/payments
func (h *PaymentHandler) BulkPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var request domain.BulkPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.BulkPayment(r.Context(), loanID, request.Amount, request.PaymentDate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayments handles GET /loans/{loanId}/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	payments, err := h.service.GetPaymentsByLoan(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, payments)
}

// GetPaymentSummary handles GET /loans/{loanId}/summary
func (h *PaymentHandler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	summary, err := h.service.GetPaymentSummary(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, summary)
}
