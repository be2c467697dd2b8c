package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/service"
	"github.com/loancore/loan-engine/pkg/response"
)

type CustomerHandler struct {
	service   *service.CustomerService
	validator *validator.Validate
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:   customerService,
		validator: newValidator(),
	}
}

// RegisterCustomer handles POST /customers
func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	customer, err := h.service.RegisterCustomer(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, customer)
}

// GetCustomer handles GET /customers/{customerId}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathUUID(w, r, "customerId")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, customers)
}

// UpdateCustomer handles PUT /customers/{customerId}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathUUID(w, r, "customerId")
	if !ok {
		return
	}

	var request domain.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), customerID, &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, customer)
}

// DeleteCustomer handles DELETE /customers/{customerId}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathUUID(w, r, "customerId")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, nil)
}
