package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/service"
	customError "github.com/loancore/loan-engine/pkg/errors"
	"github.com/loancore/loan-engine/tests/mocks"
)

var paymentDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func newPaymentService(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository) *service.PaymentService {
	return service.NewPaymentService(loanRepo, paymentRepo, nil, testConfig())
}

func TestPayInstallmentRejectsInvalidAmountBeforeAnyLookup(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	svc := newPaymentService(loanRepo, paymentRepo)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-25)} {
		result, err := svc.PayInstallment(context.Background(), uuid.New(), amount, paymentDate)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, customError.ErrInvalidAmount)
	}

	// No repository call may happen for a rejected amount.
	loanRepo.AssertNotCalled(t, "GetScheduleEntry", mock.Anything, mock.Anything)
	loanRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestPayInstallmentUnknownSchedule(t *testing.T) {
	scheduleID := uuid.New()

	loanRepo := &mocks.MockLoanRepository{}
	loanRepo.On("GetScheduleEntry", mock.Anything, scheduleID).Return(nil, sql.ErrNoRows)

	svc := newPaymentService(loanRepo, &mocks.MockPaymentRepository{})

	result, err := svc.PayInstallment(context.Background(), scheduleID, decimal.NewFromInt(100), paymentDate)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrScheduleNotFound)
	loanRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestBulkPaymentRejectsInvalidAmountBeforeTransaction(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	svc := newPaymentService(loanRepo, &mocks.MockPaymentRepository{})

	result, err := svc.BulkPayment(context.Background(), uuid.New(), decimal.Zero, paymentDate)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)
	loanRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestBulkPaymentBeginTxFailure(t *testing.T) {
	loanID := uuid.New()

	loanRepo := &mocks.MockLoanRepository{}
	loanRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newPaymentService(loanRepo, &mocks.MockPaymentRepository{})

	result, err := svc.BulkPayment(context.Background(), loanID, decimal.NewFromInt(100), paymentDate)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorContains(t, err, "DATABASE_ERROR")
}

func TestGetPaymentsByLoan(t *testing.T) {
	loanID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		loanRepo := &mocks.MockLoanRepository{}
		paymentRepo := &mocks.MockPaymentRepository{}
		loanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID}, nil)
		paymentRepo.On("GetByLoanID", mock.Anything, loanID).Return([]*domain.Payment{
			{ID: uuid.New(), LoanID: loanID, Amount: decimal.NewFromInt(300)},
			{ID: uuid.New(), LoanID: loanID, Amount: decimal.NewFromInt(200)},
		}, nil)

		svc := newPaymentService(loanRepo, paymentRepo)

		payments, err := svc.GetPaymentsByLoan(context.Background(), loanID)
		require.NoError(t, err)
		assert.Len(t, payments, 2)
	})

	t.Run("Loan not found", func(t *testing.T) {
		loanRepo := &mocks.MockLoanRepository{}
		loanRepo.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

		svc := newPaymentService(loanRepo, &mocks.MockPaymentRepository{})

		payments, err := svc.GetPaymentsByLoan(context.Background(), loanID)
		assert.Nil(t, payments)
		assert.ErrorIs(t, err, customError.ErrLoanNotFound)
	})
}

func TestGetPaymentSummary(t *testing.T) {
	loanID := uuid.New()

	loan := &domain.Loan{
		ID:             loanID,
		TotalRepayable: decimal.NewFromInt(600),
	}
	schedule := []*domain.RepaymentSchedule{
		{LoanID: loanID, Sequence: 1, AmountDue: decimal.NewFromInt(300), AmountPaid: decimal.NewFromInt(300), Status: domain.RepaymentStatusPaid},
		{LoanID: loanID, Sequence: 2, AmountDue: decimal.NewFromInt(300), AmountPaid: decimal.NewFromInt(120), Status: domain.RepaymentStatusPartiallyPaid},
	}

	loanRepo := &mocks.MockLoanRepository{}
	loanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	loanRepo.On("GetScheduleByLoanID", mock.Anything, loanID).Return(schedule, nil)

	svc := newPaymentService(loanRepo, &mocks.MockPaymentRepository{})

	summary, err := svc.GetPaymentSummary(context.Background(), loanID)
	require.NoError(t, err)

	assert.Equal(t, loanID, summary.LoanID)
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(420)))
	assert.True(t, summary.RemainingBalance.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 1, summary.RemainingInstallments)
}
