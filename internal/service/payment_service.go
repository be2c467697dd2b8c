package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/loancore/loan-engine/internal/config"
	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/engine"
	"github.com/loancore/loan-engine/internal/repository"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

// PaymentService applies payments through the allocation engine and commits
// the result atomically: touched entries, loan status and audit records go
// into one transaction, with the loan row locked so concurrent payments on
// the same loan serialize.
type PaymentService struct {
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	redis       *redis.Client
	config      *config.Config
}

func NewPaymentService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		redis:       redisClient,
		config:      cfg,
	}
}

// PayInstallment applies a payment against one schedule entry.
func (s *PaymentService) PayInstallment(ctx context.Context, scheduleID uuid.UUID, amount decimal.Decimal, date time.Time) (*domain.PaymentResult, error) {
	if amount.Sign() <= 0 {
		return nil, customError.WrapInvalidAmount(amount)
	}

	entry, err := s.LoanRepo.GetScheduleEntry(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapScheduleNotFound(scheduleID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.allocate(ctx, entry.LoanID, func(loan *domain.Loan, schedule []*domain.RepaymentSchedule) (*engine.AllocationResult, error) {
		return engine.PayInstallment(loan, schedule, scheduleID, amount, date)
	})
}

// BulkPayment spreads a payment across a loan's outstanding entries in
// due-date order.
func (s *PaymentService) BulkPayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal, date time.Time) (*domain.PaymentResult, error) {
	if amount.Sign() <= 0 {
		return nil, customError.WrapInvalidAmount(amount)
	}

	return s.allocate(ctx, loanID, func(loan *domain.Loan, schedule []*domain.RepaymentSchedule) (*engine.AllocationResult, error) {
		return engine.BulkPayment(loan, schedule, amount, date)
	})
}

// allocate runs an engine allocation inside a transaction. The loan row is
// locked first, so the read-modify-write on cumulative paid amounts cannot
// race with another payment on the same loan.
func (s *PaymentService) allocate(ctx context.Context, loanID uuid.UUID, fn func(*domain.Loan, []*domain.RepaymentSchedule) (*engine.AllocationResult, error)) (result *domain.PaymentResult, err error) {
	tx, err := s.LoanRepo.BeginTx(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	loan, err := s.LoanRepo.GetByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	schedule, err := s.LoanRepo.GetScheduleByLoanIDTx(ctx, tx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	allocation, err := fn(loan, schedule)
	if err != nil {
		return nil, err
	}

	if err = s.commitAllocation(ctx, tx, loan, allocation); err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, loanID)

	return &domain.PaymentResult{
		Entries:    allocation.Entries,
		Payments:   allocation.Payments,
		Applied:    allocation.Applied,
		Unapplied:  allocation.Unapplied,
		LoanStatus: allocation.LoanStatus,
	}, nil
}

func (s *PaymentService) commitAllocation(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan, allocation *engine.AllocationResult) error {
	if len(allocation.Entries) > 0 {
		if err := s.LoanRepo.UpdateScheduleEntriesTx(ctx, tx, allocation.Entries); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}

	if err := s.LoanRepo.UpdateLoanStatusTx(ctx, tx, loan.ID, allocation.LoanStatus); err != nil {
		return customError.WrapDatabaseError(err)
	}

	if len(allocation.Payments) > 0 {
		if err := s.PaymentRepo.CreateTx(ctx, tx, allocation.Payments); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// GetPaymentsByLoan returns the append-only audit trail for a loan.
func (s *PaymentService) GetPaymentsByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.LoanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// GetPaymentSummary computes the per-loan repayment position. Results are
// cached in Redis and invalidated on every successful allocation.
func (s *PaymentService) GetPaymentSummary(ctx context.Context, loanID uuid.UUID) (*domain.PaymentSummaryResponse, error) {
	if cached := s.cachedSummary(ctx, loanID); cached != nil {
		return cached, nil
	}

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	schedule, err := s.LoanRepo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	totalPaid := decimal.Zero
	remaining := 0
	for _, entry := range schedule {
		totalPaid = totalPaid.Add(entry.AmountPaid)
		if entry.Status != domain.RepaymentStatusPaid {
			remaining++
		}
	}

	summary := &domain.PaymentSummaryResponse{
		LoanID:                loanID,
		TotalRepayable:        loan.TotalRepayable,
		TotalPaid:             totalPaid,
		RemainingInstallments: remaining,
		RemainingBalance:      loan.TotalRepayable.Sub(totalPaid),
	}

	s.cacheSummary(ctx, summary)

	return summary, nil
}

func summaryCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:summary:%s", loanID)
}

func (s *PaymentService) cachedSummary(ctx context.Context, loanID uuid.UUID) *domain.PaymentSummaryResponse {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, summaryCacheKey(loanID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("loan %s: %v", loanID, customError.WrapCacheError(err))
		}
		return nil
	}

	var summary domain.PaymentSummaryResponse
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil
	}

	return &summary
}

func (s *PaymentService) cacheSummary(ctx context.Context, summary *domain.PaymentSummaryResponse) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, summaryCacheKey(summary.LoanID), raw, s.config.GetSummaryCacheTTL()).Err(); err != nil {
		log.Printf("loan %s: %v", summary.LoanID, customError.WrapCacheError(err))
	}
}

func (s *PaymentService) invalidateSummary(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey(loanID)).Err(); err != nil {
		log.Printf("failed to invalidate summary cache for loan %s: %v", loanID, err)
	}
}
