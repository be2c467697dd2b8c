package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/domain"
)

// GenerateSchedule produces the full installment schedule for a loan whose
// terms have already been computed. Entries come back in ascending due-date
// order; the allocator depends on that order.
//
// Each entry carries the flat per-installment amount. Independently rounding
// every installment can drift from the total by a few minor units, so the
// last entry absorbs the residual and the schedule sums to TotalRepayable
// exactly. The principal component is handled the same way against the
// principal; the interest component is derived per row, never rounded on
// its own.
func GenerateSchedule(loan *domain.Loan, baseDate time.Time) []*domain.RepaymentSchedule {
	n := loan.InstallmentCount
	count := decimal.NewFromInt(int64(n))

	installment := loan.TotalRepayable.Div(count).Round(2)
	principalPart := loan.Principal.Div(count).Round(2)

	rest := decimal.NewFromInt(int64(n - 1))
	lastInstallment := loan.TotalRepayable.Sub(installment.Mul(rest))
	lastPrincipal := loan.Principal.Sub(principalPart.Mul(rest))

	schedule := make([]*domain.RepaymentSchedule, 0, n)
	for i := 1; i <= n; i++ {
		var dueDate time.Time
		switch loan.Frequency {
		case domain.FrequencyWeekly:
			dueDate = baseDate.AddDate(0, 0, 7*i)
		default:
			dueDate = baseDate.AddDate(0, i, 0)
		}

		amountDue := installment
		principal := principalPart
		if i == n {
			amountDue = lastInstallment
			principal = lastPrincipal
		}

		schedule = append(schedule, &domain.RepaymentSchedule{
			ID:         uuid.New(),
			LoanID:     loan.ID,
			Sequence:   i,
			DueDate:    dueDate,
			AmountDue:  amountDue,
			AmountPaid: decimal.Zero,
			Principal:  principal,
			Interest:   amountDue.Sub(principal),
			Status:     domain.RepaymentStatusPending,
			CreatedAt:  baseDate,
		})
	}

	return schedule
}
