package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepaymentStatus is the payment state of a single schedule entry.
// Transitions are monotonic: PENDING -> PARTIALLY_PAID -> PAID.
type RepaymentStatus string

const (
	RepaymentStatusPending       RepaymentStatus = "PENDING"
	RepaymentStatusPartiallyPaid RepaymentStatus = "PARTIALLY_PAID"
	RepaymentStatusPaid          RepaymentStatus = "PAID"
)

// ParseRepaymentStatus validates a repayment status string.
func ParseRepaymentStatus(s string) (RepaymentStatus, bool) {
	switch RepaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case RepaymentStatusPending:
		return RepaymentStatusPending, true
	case RepaymentStatusPartiallyPaid:
		return RepaymentStatusPartiallyPaid, true
	case RepaymentStatusPaid:
		return RepaymentStatusPaid, true
	}
	return "", false
}

// RepaymentSchedule is one installment of a loan's repayment plan.
// Entries are created as a whole at loan creation and regenerated
// wholesale on a term update, never edited per field.
type RepaymentSchedule struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      uuid.UUID       `json:"loan_id" db:"loan_id"`
	Sequence    int             `json:"sequence" db:"sequence"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	AmountDue   decimal.Decimal `json:"amount_due" db:"amount_due"`
	AmountPaid  decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Principal   decimal.Decimal `json:"principal_component" db:"principal_component"`
	Interest    decimal.Decimal `json:"interest_component" db:"interest_component"`
	Status      RepaymentStatus `json:"status" db:"status"`
	PaymentDate *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Outstanding is the unpaid remainder of this entry.
func (s *RepaymentSchedule) Outstanding() decimal.Decimal {
	return s.AmountDue.Sub(s.AmountPaid)
}

type ScheduleResponse struct {
	LoanID   uuid.UUID            `json:"loan_id"`
	Schedule []*RepaymentSchedule `json:"schedule"`
}
