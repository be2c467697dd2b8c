package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan. DEFAULTED is only ever
// assigned by the delinquency sweep, never by the allocation engine.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusPaid      LoanStatus = "PAID"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// Frequency is the repayment cadence of a loan.
type Frequency string

const (
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyWeekly  Frequency = "WEEKLY"
)

// ParseFrequency normalizes and validates a frequency string.
// Legacy records stored "MONTHS"/"WEEKS"; both spellings are accepted.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MONTHLY", "MONTHS":
		return FrequencyMonthly, true
	case "WEEKLY", "WEEKS":
		return FrequencyWeekly, true
	}
	return "", false
}

// ParseLoanStatus validates a loan status string.
func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case LoanStatusActive:
		return LoanStatusActive, true
	case LoanStatusPaid:
		return LoanStatusPaid, true
	case LoanStatusDefaulted:
		return LoanStatusDefaulted, true
	}
	return "", false
}

// Loan represents a loan entity. TotalRepayable, DueDate and
// InstallmentCount are computed by the engine at creation time.
type Loan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	CustomerID       uuid.UUID       `json:"customer_id" db:"customer_id"`
	Principal        decimal.Decimal `json:"principal" db:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"` // whole-number percent, e.g. 10
	PeriodMonths     int             `json:"period_months" db:"period_months"`
	Frequency        Frequency       `json:"frequency" db:"frequency"`
	TotalRepayable   decimal.Decimal `json:"total_repayable" db:"total_repayable"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	InstallmentCount int             `json:"installment_count" db:"installment_count"`
	Status           LoanStatus      `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id" validate:"required"`
	Principal    decimal.Decimal `json:"principal" validate:"dgt"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"dgte"`
	PeriodMonths int             `json:"period_months" validate:"required,gt=0"`
	Frequency    string          `json:"frequency" validate:"required"`
}

type UpdateLoanRequest struct {
	Principal    decimal.Decimal `json:"principal" validate:"dgt"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"dgte"`
	PeriodMonths int             `json:"period_months" validate:"required,gt=0"`
	Frequency    string          `json:"frequency" validate:"required"`
}

type CreateLoanResponse struct {
	Loan     *Loan                `json:"loan"`
	Schedule []*RepaymentSchedule `json:"schedule"`
}

type PaymentSummaryResponse struct {
	LoanID                uuid.UUID       `json:"loan_id"`
	TotalRepayable        decimal.Decimal `json:"total_repayable"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	RemainingInstallments int             `json:"remaining_installments"`
	RemainingBalance      decimal.Decimal `json:"remaining_balance"`
}
