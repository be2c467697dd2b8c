// Package engine holds the loan calculation and payment allocation core.
// Everything in here is a pure function over domain records: no I/O, no
// implicit clock reads, deterministic for a given input.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/domain"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

// weeksPerMonth is the approximation used to convert a period in months
// into a weekly installment count.
var weeksPerMonth = decimal.RequireFromString("4.345")

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Terms is the computed repayment plan for a set of loan terms.
type Terms struct {
	TotalRepayable    decimal.Decimal `json:"total_repayable"`
	DueDate           time.Time       `json:"due_date"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentCount  int             `json:"installment_count"`
}

// CalculateTerms computes the total repayable amount, final due date and
// per-installment amount for a loan using flat (non-compounding) interest:
//
//	interest = principal * (rate/100) * (months/12)
//
// ratePercent is a whole-number annual percentage, e.g. 10 for 10%.
// The per-installment amount is rounded half-up to 2 decimals; the rounding
// residual is absorbed by the last schedule entry (see GenerateSchedule) so
// that the schedule always sums to TotalRepayable exactly.
func CalculateTerms(principal decimal.Decimal, periodMonths int, ratePercent decimal.Decimal, frequency domain.Frequency, asOf time.Time) (*Terms, error) {
	if principal.Sign() <= 0 {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("principal must be positive, got %s", principal))
	}
	if periodMonths <= 0 {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("repayment period must be positive, got %d months", periodMonths))
	}
	if ratePercent.Sign() < 0 {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("interest rate must not be negative, got %s", ratePercent))
	}

	months := decimal.NewFromInt(int64(periodMonths))

	var count int
	switch frequency {
	case domain.FrequencyMonthly:
		count = periodMonths
	case domain.FrequencyWeekly:
		count = int(months.Mul(weeksPerMonth).Ceil().IntPart())
	default:
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("unsupported frequency %q", frequency))
	}

	// Guard against a zero divisor instead of letting Div panic.
	if count <= 0 {
		return nil, customError.WrapInvalidTerms(fmt.Sprintf("installment count resolved to %d", count))
	}

	interest := principal.Mul(ratePercent).Div(hundred).Mul(months).Div(monthsInYear)
	total := principal.Add(interest).Round(2)

	return &Terms{
		TotalRepayable:    total,
		DueDate:           asOf.AddDate(0, periodMonths, 0),
		InstallmentAmount: total.Div(decimal.NewFromInt(int64(count))).Round(2),
		InstallmentCount:  count,
	}, nil
}
