package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/service"
	customError "github.com/loancore/loan-engine/pkg/errors"
	"github.com/loancore/loan-engine/tests/mocks"
)

func TestRegisterCustomer(t *testing.T) {
	customerRepo := &mocks.MockCustomerRepository{}
	customerRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.FirstName == "Amina" && c.ID != uuid.Nil
	})).Return(nil)

	svc := service.NewCustomerService(customerRepo)

	customer, err := svc.RegisterCustomer(context.Background(), &domain.RegisterCustomerRequest{
		FirstName:   "Amina",
		LastName:    "Diallo",
		NationalID:  "ID-778812",
		PhoneNumber: "+221770000000",
	})

	require.NoError(t, err)
	assert.Equal(t, "Amina", customer.FirstName)
	assert.False(t, customer.RegistrationDate.IsZero())
	customerRepo.AssertExpectations(t)
}

func TestGetCustomerNotFound(t *testing.T) {
	id := uuid.New()

	customerRepo := &mocks.MockCustomerRepository{}
	customerRepo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	svc := service.NewCustomerService(customerRepo)

	customer, err := svc.GetCustomer(context.Background(), id)
	assert.Nil(t, customer)
	assert.ErrorIs(t, err, customError.ErrCustomerNotFound)
}

func TestUpdateCustomer(t *testing.T) {
	id := uuid.New()
	existing := &domain.Customer{ID: id, FirstName: "Old"}

	customerRepo := &mocks.MockCustomerRepository{}
	customerRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	customerRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.ID == id && c.FirstName == "New"
	})).Return(nil)

	svc := service.NewCustomerService(customerRepo)

	customer, err := svc.UpdateCustomer(context.Background(), id, &domain.RegisterCustomerRequest{
		FirstName:   "New",
		LastName:    "Name",
		NationalID:  "ID-1",
		PhoneNumber: "+1000",
	})

	require.NoError(t, err)
	assert.Equal(t, "New", customer.FirstName)
	customerRepo.AssertExpectations(t)
}
