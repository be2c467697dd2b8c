package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/repository"
	customError "github.com/loancore/loan-engine/pkg/errors"
	"github.com/loancore/loan-engine/pkg/utils"
)

// StatsService aggregates portfolio-level reporting figures. Read only;
// it never touches loan or schedule state.
type StatsService struct {
	LoanRepo repository.LoanRepository
}

func NewStatsService(loanRepo repository.LoanRepository) *StatsService {
	return &StatsService{LoanRepo: loanRepo}
}

type LoanSummary struct {
	TotalLoans           int             `json:"total_loans"`
	TotalAmountDisbursed decimal.Decimal `json:"total_amount_disbursed"`
	LoansByStatus        map[string]int  `json:"loans_by_status"`
	AverageLoanAmount    decimal.Decimal `json:"average_loan_amount"`
	AverageInterestRate  decimal.Decimal `json:"average_interest_rate"`
	AveragePeriodMonths  decimal.Decimal `json:"average_period_months"`
}

type DisbursedVsPaid struct {
	TotalAmountDisbursed decimal.Decimal `json:"total_amount_disbursed"`
	TotalAmountPaid      decimal.Decimal `json:"total_amount_paid"`
	PercentagePaid       decimal.Decimal `json:"percentage_paid"`
}

type PortfolioPaymentSummary struct {
	TotalAmountRepayable  decimal.Decimal `json:"total_amount_repayable"`
	TotalAmountPaid       decimal.Decimal `json:"total_amount_paid"`
	TotalRemainingBalance decimal.Decimal `json:"total_remaining_balance"`
}

// GetLoanSummary reports portfolio counts and averages.
func (s *StatsService) GetLoanSummary(ctx context.Context) (*LoanSummary, error) {
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &LoanSummary{
		TotalLoans:           len(loans),
		TotalAmountDisbursed: decimal.Zero,
		LoansByStatus:        make(map[string]int),
		AverageLoanAmount:    decimal.Zero,
		AverageInterestRate:  decimal.Zero,
		AveragePeriodMonths:  decimal.Zero,
	}

	principals := make([]decimal.Decimal, 0, len(loans))
	rates := make([]decimal.Decimal, 0, len(loans))
	periods := make([]decimal.Decimal, 0, len(loans))
	for _, loan := range loans {
		principals = append(principals, loan.Principal)
		rates = append(rates, loan.InterestRate)
		periods = append(periods, decimal.NewFromInt(int64(loan.PeriodMonths)))
		summary.LoansByStatus[string(loan.Status)]++
	}

	summary.TotalAmountDisbursed = utils.SumDecimals(principals)
	summary.AverageLoanAmount = utils.AverageDecimals(principals)
	summary.AverageInterestRate = utils.AverageDecimals(rates)
	summary.AveragePeriodMonths = utils.AverageDecimals(periods)

	return summary, nil
}

// GetDisbursedVsPaid compares total principal disbursed with total amounts
// repaid across all schedules.
func (s *StatsService) GetDisbursedVsPaid(ctx context.Context) (*DisbursedVsPaid, error) {
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	disbursed := decimal.Zero
	paid := decimal.Zero
	for _, loan := range loans {
		disbursed = disbursed.Add(loan.Principal)

		totalPaid, err := s.sumPaid(ctx, loan)
		if err != nil {
			return nil, err
		}
		paid = paid.Add(totalPaid)
	}

	return &DisbursedVsPaid{
		TotalAmountDisbursed: disbursed,
		TotalAmountPaid:      paid,
		PercentagePaid:       utils.PercentOf(paid, disbursed),
	}, nil
}

// GetPortfolioPaymentSummary reports the repayable/paid/remaining position
// across the whole book.
func (s *StatsService) GetPortfolioPaymentSummary(ctx context.Context) (*PortfolioPaymentSummary, error) {
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	repayable := decimal.Zero
	paid := decimal.Zero
	for _, loan := range loans {
		repayable = repayable.Add(loan.TotalRepayable)

		totalPaid, err := s.sumPaid(ctx, loan)
		if err != nil {
			return nil, err
		}
		paid = paid.Add(totalPaid)
	}

	return &PortfolioPaymentSummary{
		TotalAmountRepayable:  repayable,
		TotalAmountPaid:       paid,
		TotalRemainingBalance: repayable.Sub(paid),
	}, nil
}

func (s *StatsService) sumPaid(ctx context.Context, loan *domain.Loan) (decimal.Decimal, error) {
	schedule, err := s.LoanRepo.GetScheduleByLoanID(ctx, loan.ID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	total := decimal.Zero
	for _, entry := range schedule {
		total = total.Add(entry.AmountPaid)
	}

	return total, nil
}
