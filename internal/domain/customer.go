package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a borrower. Loans reference customers by id.
type Customer struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	NationalID       string    `json:"national_id" db:"national_id"`
	PhoneNumber      string    `json:"phone_number" db:"phone_number"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type RegisterCustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	NationalID  string `json:"national_id" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}
