package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/domain"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

// AllocationResult describes what a payment did: the entries it touched,
// the audit records it produced, and how much of the requested amount was
// actually consumed. Unapplied is the overpayment remainder; it is reported
// to the caller, never silently dropped.
type AllocationResult struct {
	Entries    []*domain.RepaymentSchedule
	Payments   []*domain.Payment
	Applied    decimal.Decimal
	Unapplied  decimal.Decimal
	LoanStatus domain.LoanStatus
}

// PayInstallment applies a payment against a single schedule entry.
//
// The applied amount is capped at the entry's outstanding balance; an
// overpayment comes back in Unapplied. All validation happens before any
// mutation, so a failed call leaves loan and schedule untouched.
func PayInstallment(loan *domain.Loan, schedule []*domain.RepaymentSchedule, scheduleID uuid.UUID, amount decimal.Decimal, date time.Time) (*AllocationResult, error) {
	if amount.Sign() <= 0 {
		return nil, customError.WrapInvalidAmount(amount)
	}

	var entry *domain.RepaymentSchedule
	for _, s := range schedule {
		if s.ID == scheduleID {
			entry = s
			break
		}
	}
	if entry == nil {
		return nil, customError.WrapScheduleNotFound(scheduleID)
	}

	result := &AllocationResult{
		Applied:   decimal.Zero,
		Unapplied: amount,
	}

	applied := applyToEntry(entry, amount, date)
	if applied.Sign() > 0 {
		result.Entries = append(result.Entries, entry)
		result.Payments = append(result.Payments, newAuditRecord(loan.ID, entry.ID, applied, date))
		result.Applied = applied
		result.Unapplied = amount.Sub(applied)
	}

	result.LoanStatus = settleLoanStatus(loan, schedule)
	return result, nil
}

// BulkPayment spreads one payment amount across a loan's outstanding
// entries in ascending due-date order (generation order breaks ties, so
// allocation is deterministic). One audit record is emitted per touched
// entry carrying the amount applied to that entry, not the requested total.
func BulkPayment(loan *domain.Loan, schedule []*domain.RepaymentSchedule, amount decimal.Decimal, date time.Time) (*AllocationResult, error) {
	if amount.Sign() <= 0 {
		return nil, customError.WrapInvalidAmount(amount)
	}

	outstanding := make([]*domain.RepaymentSchedule, 0, len(schedule))
	for _, s := range schedule {
		if s.Status != domain.RepaymentStatusPaid {
			outstanding = append(outstanding, s)
		}
	}
	sort.SliceStable(outstanding, func(i, j int) bool {
		if outstanding[i].DueDate.Equal(outstanding[j].DueDate) {
			return outstanding[i].Sequence < outstanding[j].Sequence
		}
		return outstanding[i].DueDate.Before(outstanding[j].DueDate)
	})

	result := &AllocationResult{
		Applied:   decimal.Zero,
		Unapplied: decimal.Zero,
	}

	remaining := amount
	for _, entry := range outstanding {
		if remaining.Sign() <= 0 {
			break
		}

		applied := applyToEntry(entry, remaining, date)
		if applied.Sign() <= 0 {
			continue
		}

		result.Entries = append(result.Entries, entry)
		result.Payments = append(result.Payments, newAuditRecord(loan.ID, entry.ID, applied, date))
		result.Applied = result.Applied.Add(applied)
		remaining = remaining.Sub(applied)
	}

	result.Unapplied = remaining
	result.LoanStatus = settleLoanStatus(loan, schedule)
	return result, nil
}

// applyToEntry credits at most the entry's outstanding balance and moves
// its status forward. Entry status never regresses: a PAID entry stays
// PAID and receives nothing.
func applyToEntry(entry *domain.RepaymentSchedule, amount decimal.Decimal, date time.Time) decimal.Decimal {
	applied := decimal.Min(amount, entry.Outstanding())
	if applied.Sign() <= 0 {
		return decimal.Zero
	}

	entry.AmountPaid = entry.AmountPaid.Add(applied)
	if entry.AmountPaid.Cmp(entry.AmountDue) >= 0 {
		entry.Status = domain.RepaymentStatusPaid
		paid := date
		entry.PaymentDate = &paid
	} else {
		entry.Status = domain.RepaymentStatusPartiallyPaid
	}

	return applied
}

// settleLoanStatus flips the loan to PAID once every entry is PAID.
// PAID is terminal: it is never reverted here, and DEFAULTED is never
// assigned here (that transition belongs to the delinquency sweep).
func settleLoanStatus(loan *domain.Loan, schedule []*domain.RepaymentSchedule) domain.LoanStatus {
	if loan.Status == domain.LoanStatusPaid {
		return loan.Status
	}

	for _, s := range schedule {
		if s.Status != domain.RepaymentStatusPaid {
			return loan.Status
		}
	}

	loan.Status = domain.LoanStatusPaid
	return loan.Status
}

func newAuditRecord(loanID, scheduleID uuid.UUID, amount decimal.Decimal, date time.Time) *domain.Payment {
	return &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		ScheduleID:  scheduleID,
		Amount:      amount,
		PaymentDate: date,
		CreatedAt:   date,
	}
}
