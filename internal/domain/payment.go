package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an append-only audit record of an amount actually applied
// to a specific schedule entry. It references loan and entry by id only
// and is never mutated or deleted.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      uuid.UUID       `json:"loan_id" db:"loan_id"`
	ScheduleID  uuid.UUID       `json:"schedule_id" db:"schedule_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type PayInstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"dgt"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
}

type BulkPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"dgt"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
}

type PaymentResult struct {
	Entries    []*RepaymentSchedule `json:"entries"`
	Payments   []*Payment           `json:"payments"`
	Applied    decimal.Decimal      `json:"amount_applied"`
	Unapplied  decimal.Decimal      `json:"amount_unapplied"`
	LoanStatus LoanStatus           `json:"loan_status"`
}
