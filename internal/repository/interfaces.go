package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loancore/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan and schedule data operations.
//
// Payment allocation needs the entry updates, the loan status change and the
// audit inserts to commit as one unit, so the *Tx variants take an explicit
// transaction started with BeginTx. GetByIDForUpdate locks the loan row,
// which serializes concurrent payments against the same loan.
type LoanRepository interface {
	// BeginTx starts a transaction for a multi-statement allocation commit
	BeginTx(ctx context.Context) (*sqlx.Tx, error)

	// Create persists a loan together with its full schedule
	Create(ctx context.Context, loan *domain.Loan, schedule []*domain.RepaymentSchedule) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan by id with a row lock inside tx
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Loan, error)

	// List retrieves all loans
	List(ctx context.Context) ([]*domain.Loan, error)

	// ReplaceTerms updates a loan's terms and swaps in a regenerated schedule
	ReplaceTerms(ctx context.Context, loan *domain.Loan, schedule []*domain.RepaymentSchedule) error

	// Delete removes a loan and its schedule
	Delete(ctx context.Context, id uuid.UUID) error

	// GetScheduleByLoanID retrieves a loan's schedule in generation order
	GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.RepaymentSchedule, error)

	// GetScheduleByLoanIDTx is GetScheduleByLoanID inside a transaction
	GetScheduleByLoanIDTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) ([]*domain.RepaymentSchedule, error)

	// GetScheduleEntry retrieves a single schedule entry by id
	GetScheduleEntry(ctx context.Context, scheduleID uuid.UUID) (*domain.RepaymentSchedule, error)

	// UpdateScheduleEntriesTx persists allocation results for touched entries
	UpdateScheduleEntriesTx(ctx context.Context, tx *sqlx.Tx, entries []*domain.RepaymentSchedule) error

	// UpdateLoanStatusTx updates the loan status inside a transaction
	UpdateLoanStatusTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID, status domain.LoanStatus) error

	// UpdateLoanStatus updates the loan status
	UpdateLoanStatus(ctx context.Context, loanID uuid.UUID, status domain.LoanStatus) error

	// ListDelinquent finds ACTIVE loans with at least threshold overdue unpaid entries
	ListDelinquent(ctx context.Context, asOf time.Time, threshold int) ([]uuid.UUID, error)
}

// PaymentRepository defines the interface for payment audit records.
// Records are append-only; there is no update or delete.
type PaymentRepository interface {
	// CreateTx appends audit records inside an allocation transaction
	CreateTx(ctx context.Context, tx *sqlx.Tx, payments []*domain.Payment) error

	// GetByLoanID retrieves all audit records for a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
