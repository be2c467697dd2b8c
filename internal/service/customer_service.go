package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/repository"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{CustomerRepo: customerRepo}
}

func (s *CustomerService) RegisterCustomer(ctx context.Context, request *domain.RegisterCustomerRequest) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:               uuid.New(),
		FirstName:        request.FirstName,
		LastName:         request.LastName,
		NationalID:       request.NationalID,
		PhoneNumber:      request.PhoneNumber,
		RegistrationDate: now,
		CreatedAt:        now,
	}

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(id)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customers, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, request *domain.RegisterCustomerRequest) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = request.FirstName
	customer.LastName = request.LastName
	customer.NationalID = request.NationalID
	customer.PhoneNumber = request.PhoneNumber

	if err := s.CustomerRepo.Update(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}
