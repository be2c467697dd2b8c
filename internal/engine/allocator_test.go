package engine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/engine"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

var payDate = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

// twoInstallmentLoan builds an active loan with two outstanding entries of
// 300 each, due a month apart.
func twoInstallmentLoan() (*domain.Loan, []*domain.RepaymentSchedule) {
	loan := &domain.Loan{
		ID:               uuid.New(),
		TotalRepayable:   d("600"),
		InstallmentCount: 2,
		Status:           domain.LoanStatusActive,
	}

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	schedule := []*domain.RepaymentSchedule{
		{ID: uuid.New(), LoanID: loan.ID, Sequence: 1, DueDate: base.AddDate(0, 1, 0), AmountDue: d("300"), AmountPaid: decimal.Zero, Status: domain.RepaymentStatusPending},
		{ID: uuid.New(), LoanID: loan.ID, Sequence: 2, DueDate: base.AddDate(0, 2, 0), AmountDue: d("300"), AmountPaid: decimal.Zero, Status: domain.RepaymentStatusPending},
	}

	return loan, schedule
}

func TestBulkPaymentAllocatesInDueDateOrder(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.BulkPayment(loan, schedule, d("500"), payDate)
	require.NoError(t, err)

	// First entry fully paid, second partially.
	assert.Equal(t, domain.RepaymentStatusPaid, schedule[0].Status)
	assert.True(t, schedule[0].AmountPaid.Equal(d("300")))
	require.NotNil(t, schedule[0].PaymentDate)
	assert.Equal(t, payDate, *schedule[0].PaymentDate)

	assert.Equal(t, domain.RepaymentStatusPartiallyPaid, schedule[1].Status)
	assert.True(t, schedule[1].AmountPaid.Equal(d("200")))
	assert.Nil(t, schedule[1].PaymentDate)

	// One audit record per touched entry with the amount actually applied.
	require.Len(t, result.Payments, 2)
	assert.True(t, result.Payments[0].Amount.Equal(d("300")))
	assert.Equal(t, schedule[0].ID, result.Payments[0].ScheduleID)
	assert.True(t, result.Payments[1].Amount.Equal(d("200")))
	assert.Equal(t, schedule[1].ID, result.Payments[1].ScheduleID)

	assert.True(t, result.Applied.Equal(d("500")))
	assert.True(t, result.Unapplied.IsZero())
	assert.Equal(t, domain.LoanStatusActive, result.LoanStatus)
}

func TestBulkPaymentReportsOverpayment(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.BulkPayment(loan, schedule, d("700"), payDate)
	require.NoError(t, err)

	assert.True(t, result.Applied.Equal(d("600")))
	assert.True(t, result.Unapplied.Equal(d("100")), "overpayment must be reported, not dropped")
	assert.Equal(t, domain.LoanStatusPaid, result.LoanStatus)
	assert.Equal(t, domain.LoanStatusPaid, loan.Status)

	for _, entry := range schedule {
		assert.Equal(t, domain.RepaymentStatusPaid, entry.Status)
		assert.True(t, entry.AmountPaid.Equal(entry.AmountDue),
			"amount paid never exceeds amount due")
	}
}

func TestBulkPaymentOnFullyPaidLoanIsIdempotent(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	_, err := engine.BulkPayment(loan, schedule, d("600"), payDate)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusPaid, loan.Status)

	result, err := engine.BulkPayment(loan, schedule, d("250"), payDate.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.True(t, result.Applied.IsZero())
	assert.True(t, result.Unapplied.Equal(d("250")), "full amount reported as unconsumed")
	assert.Empty(t, result.Payments)
	assert.Empty(t, result.Entries)
	assert.Equal(t, domain.LoanStatusPaid, result.LoanStatus)

	// PAID is terminal; nothing regressed.
	for _, entry := range schedule {
		assert.Equal(t, domain.RepaymentStatusPaid, entry.Status)
		assert.True(t, entry.AmountPaid.Equal(d("300")))
	}
}

func TestBulkPaymentSkipsPaidEntries(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	// Settle the first entry directly, then bulk-pay: only the second
	// entry may receive funds.
	_, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d("300"), payDate)
	require.NoError(t, err)

	result, err := engine.BulkPayment(loan, schedule, d("100"), payDate)
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, schedule[1].ID, result.Entries[0].ID)
	assert.True(t, schedule[1].AmountPaid.Equal(d("100")))
}

func TestBulkPaymentInvalidAmount(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	for _, amount := range []decimal.Decimal{d("0"), d("-50")} {
		result, err := engine.BulkPayment(loan, schedule, amount, payDate)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, customError.ErrInvalidAmount)
	}

	// Rejected before any mutation.
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	for _, entry := range schedule {
		assert.Equal(t, domain.RepaymentStatusPending, entry.Status)
		assert.True(t, entry.AmountPaid.IsZero())
	}
}

func TestPayInstallmentPartial(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d("120.50"), payDate)
	require.NoError(t, err)

	assert.Equal(t, domain.RepaymentStatusPartiallyPaid, schedule[0].Status)
	assert.True(t, schedule[0].AmountPaid.Equal(d("120.50")))
	assert.Nil(t, schedule[0].PaymentDate)

	require.Len(t, result.Payments, 1)
	assert.True(t, result.Payments[0].Amount.Equal(d("120.50")))
	assert.True(t, result.Unapplied.IsZero())
	assert.Equal(t, domain.LoanStatusActive, result.LoanStatus)
}

func TestPayInstallmentCapsOverpayment(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d("450"), payDate)
	require.NoError(t, err)

	assert.Equal(t, domain.RepaymentStatusPaid, schedule[0].Status)
	assert.True(t, schedule[0].AmountPaid.Equal(d("300")), "entry is capped at its due amount")
	require.NotNil(t, schedule[0].PaymentDate)

	assert.True(t, result.Applied.Equal(d("300")))
	assert.True(t, result.Unapplied.Equal(d("150")))

	require.Len(t, result.Payments, 1)
	assert.True(t, result.Payments[0].Amount.Equal(d("300")), "audit record carries the applied amount")
}

func TestPayInstallmentAccumulates(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	amounts := []string{"100", "100", "100"}
	previous := decimal.Zero
	for _, amount := range amounts {
		_, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d(amount), payDate)
		require.NoError(t, err)

		assert.True(t, schedule[0].AmountPaid.GreaterThanOrEqual(previous),
			"amount paid is monotonically non-decreasing")
		previous = schedule[0].AmountPaid
	}

	assert.Equal(t, domain.RepaymentStatusPaid, schedule[0].Status)
	assert.True(t, schedule[0].AmountPaid.Equal(d("300")))
}

func TestPayInstallmentSettlesLoanOnLastEntry(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d("300"), payDate)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, result.LoanStatus, "loan stays active until the final entry settles")

	result, err = engine.PayInstallment(loan, schedule, schedule[1].ID, d("300"), payDate)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPaid, result.LoanStatus, "loan flips to PAID on the call that settles the last entry")
}

func TestPayInstallmentUnknownEntry(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.PayInstallment(loan, schedule, uuid.New(), d("100"), payDate)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrScheduleNotFound)

	for _, entry := range schedule {
		assert.True(t, entry.AmountPaid.IsZero())
	}
}

func TestPayInstallmentInvalidAmount(t *testing.T) {
	loan, schedule := twoInstallmentLoan()

	result, err := engine.PayInstallment(loan, schedule, schedule[0].ID, d("-10"), payDate)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)
	assert.True(t, schedule[0].AmountPaid.IsZero())
}

func TestBulkPaymentTieBreaksOnSequence(t *testing.T) {
	loan, schedule := twoInstallmentLoan()
	// Same due date on both entries: generation order must decide.
	schedule[1].DueDate = schedule[0].DueDate

	result, err := engine.BulkPayment(loan, schedule, d("300"), payDate)
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, 1, result.Entries[0].Sequence)
	assert.Equal(t, domain.RepaymentStatusPaid, schedule[0].Status)
	assert.Equal(t, domain.RepaymentStatusPending, schedule[1].Status)
}
