package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/config"
	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/engine"
	"github.com/loancore/loan-engine/internal/repository"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

// LoanService orchestrates loan lifecycle operations around the pure
// calculation engine: the engine computes, this layer looks up and persists.
type LoanService struct {
	LoanRepo     repository.LoanRepository
	CustomerRepo repository.CustomerRepository
	redis        *redis.Client
	config       *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	customerRepo repository.CustomerRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		LoanRepo:     loanRepo,
		CustomerRepo: customerRepo,
		redis:        redisClient,
		config:       cfg,
	}
}

// CreateLoan computes repayment terms, generates the schedule and persists
// both. The customer must exist; the frequency string must parse.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.RepaymentSchedule, error) {
	frequency, ok := domain.ParseFrequency(request.Frequency)
	if !ok {
		return nil, nil, customError.WrapInvalidTerms("unsupported frequency " + request.Frequency)
	}

	if _, err := s.CustomerRepo.GetByID(ctx, request.CustomerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapCustomerNotFound(request.CustomerID)
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	terms, err := engine.CalculateTerms(request.Principal, request.PeriodMonths, request.InterestRate, frequency, now)
	if err != nil {
		return nil, nil, err
	}

	loan := &domain.Loan{
		ID:               uuid.New(),
		CustomerID:       request.CustomerID,
		Principal:        request.Principal,
		InterestRate:     request.InterestRate,
		PeriodMonths:     request.PeriodMonths,
		Frequency:        frequency,
		TotalRepayable:   terms.TotalRepayable,
		DueDate:          terms.DueDate,
		InstallmentCount: terms.InstallmentCount,
		Status:           domain.LoanStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	schedule := engine.GenerateSchedule(loan, now)

	if err = s.LoanRepo.Create(ctx, loan, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return loan, schedule, nil
}

// CalculateTerms is the stateless quotation endpoint: same computation as
// CreateLoan, nothing persisted.
func (s *LoanService) CalculateTerms(ctx context.Context, principal decimal.Decimal, periodMonths int, ratePercent decimal.Decimal, frequency string) (*engine.Terms, error) {
	freq, ok := domain.ParseFrequency(frequency)
	if !ok {
		return nil, customError.WrapInvalidTerms("unsupported frequency " + frequency)
	}

	return engine.CalculateTerms(principal, periodMonths, ratePercent, freq, time.Now())
}

func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}

func (s *LoanService) ListLoans(ctx context.Context) ([]*domain.Loan, error) {
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loans, nil
}

func (s *LoanService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.RepaymentSchedule, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	schedule, err := s.LoanRepo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return schedule, nil
}

// UpdateLoanTerms recomputes the repayment plan from the new terms and
// regenerates the schedule wholesale. Any recorded payments belong to the
// old plan and do not carry over.
func (s *LoanService) UpdateLoanTerms(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanRequest) (*domain.Loan, []*domain.RepaymentSchedule, error) {
	frequency, ok := domain.ParseFrequency(request.Frequency)
	if !ok {
		return nil, nil, customError.WrapInvalidTerms("unsupported frequency " + request.Frequency)
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	terms, err := engine.CalculateTerms(request.Principal, request.PeriodMonths, request.InterestRate, frequency, loan.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	loan.Principal = request.Principal
	loan.InterestRate = request.InterestRate
	loan.PeriodMonths = request.PeriodMonths
	loan.Frequency = frequency
	loan.TotalRepayable = terms.TotalRepayable
	loan.DueDate = terms.DueDate
	loan.InstallmentCount = terms.InstallmentCount
	loan.UpdatedAt = now

	schedule := engine.GenerateSchedule(loan, loan.CreatedAt)

	if err = s.LoanRepo.ReplaceTerms(ctx, loan, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.invalidateSummary(ctx, loanID)

	return loan, schedule, nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, loanID uuid.UUID) error {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return err
	}

	if err := s.LoanRepo.Delete(ctx, loanID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateSummary(ctx, loanID)

	return nil
}

// MarkDelinquentLoans flips ACTIVE loans past the delinquency threshold to
// DEFAULTED. This is the only place that status is ever assigned; the
// allocation engine never touches it. Returns the ids that were marked.
func (s *LoanService) MarkDelinquentLoans(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	ids, err := s.LoanRepo.ListDelinquent(ctx, asOf, s.config.Business.DelinquencyThreshold)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	marked := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := s.LoanRepo.UpdateLoanStatus(ctx, id, domain.LoanStatusDefaulted); err != nil {
			return marked, customError.WrapDatabaseError(err)
		}
		marked = append(marked, id)
	}

	return marked, nil
}

func (s *LoanService) invalidateSummary(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey(loanID)).Err(); err != nil {
		log.Printf("failed to invalidate summary cache for loan %s: %v", loanID, err)
	}
}
