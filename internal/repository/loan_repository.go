package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loancore/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

const insertLoanQuery = `
	INSERT INTO loans (id, customer_id, principal, interest_rate, period_months, frequency,
	                   total_repayable, due_date, installment_count, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

const insertScheduleQuery = `
	INSERT INTO repayment_schedule (id, loan_id, sequence, due_date, amount_due, amount_paid,
	                                principal_component, interest_component, status, payment_date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan, schedule []*domain.RepaymentSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertLoanQuery,
		loan.ID,
		loan.CustomerID,
		loan.Principal,
		loan.InterestRate,
		loan.PeriodMonths,
		loan.Frequency,
		loan.TotalRepayable,
		loan.DueDate,
		loan.InstallmentCount,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertSchedule(ctx, tx, schedule); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSchedule(ctx context.Context, tx *sqlx.Tx, schedule []*domain.RepaymentSchedule) error {
	for _, entry := range schedule {
		_, err := tx.ExecContext(ctx, insertScheduleQuery,
			entry.ID,
			entry.LoanID,
			entry.Sequence,
			entry.DueDate,
			entry.AmountDue,
			entry.AmountPaid,
			entry.Principal,
			entry.Interest,
			entry.Status,
			entry.PaymentDate,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const selectLoanQuery = `
	SELECT id, customer_id, principal, interest_rate, period_months, frequency,
	       total_repayable, due_date, installment_count, status, created_at, updated_at
	FROM loans
`

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, selectLoanQuery+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Loan, error) {
	var loan domain.Loan
	err := tx.GetContext(ctx, &loan, selectLoanQuery+` WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, selectLoanQuery+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

// ReplaceTerms rewrites the loan row and regenerates its schedule wholesale.
// Entries are never patched per field: the old schedule is dropped and the
// freshly generated one inserted in the same transaction.
func (r *loanRepository) ReplaceTerms(ctx context.Context, loan *domain.Loan, schedule []*domain.RepaymentSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE loans
		SET principal = $2, interest_rate = $3, period_months = $4, frequency = $5,
		    total_repayable = $6, due_date = $7, installment_count = $8, updated_at = $9
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, query,
		loan.ID,
		loan.Principal,
		loan.InterestRate,
		loan.PeriodMonths,
		loan.Frequency,
		loan.TotalRepayable,
		loan.DueDate,
		loan.InstallmentCount,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM repayment_schedule WHERE loan_id = $1`, loan.ID); err != nil {
		return err
	}

	if err = insertSchedule(ctx, tx, schedule); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM repayment_schedule WHERE loan_id = $1`, id); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

const selectScheduleQuery = `
	SELECT id, loan_id, sequence, due_date, amount_due, amount_paid,
	       principal_component, interest_component, status, payment_date, created_at
	FROM repayment_schedule
`

func (r *loanRepository) GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.RepaymentSchedule, error) {
	var schedule []*domain.RepaymentSchedule
	err := r.db.SelectContext(ctx, &schedule, selectScheduleQuery+` WHERE loan_id = $1 ORDER BY sequence`, loanID)
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *loanRepository) GetScheduleByLoanIDTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) ([]*domain.RepaymentSchedule, error) {
	var schedule []*domain.RepaymentSchedule
	err := tx.SelectContext(ctx, &schedule, selectScheduleQuery+` WHERE loan_id = $1 ORDER BY sequence`, loanID)
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *loanRepository) GetScheduleEntry(ctx context.Context, scheduleID uuid.UUID) (*domain.RepaymentSchedule, error) {
	var entry domain.RepaymentSchedule
	err := r.db.GetContext(ctx, &entry, selectScheduleQuery+` WHERE id = $1`, scheduleID)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *loanRepository) UpdateScheduleEntriesTx(ctx context.Context, tx *sqlx.Tx, entries []*domain.RepaymentSchedule) error {
	query := `
		UPDATE repayment_schedule
		SET amount_paid = $2, status = $3, payment_date = $4
		WHERE id = $1
	`

	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, query, entry.ID, entry.AmountPaid, entry.Status, entry.PaymentDate)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) UpdateLoanStatusTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID, status domain.LoanStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE loans SET status = $2, updated_at = $3 WHERE id = $1`, loanID, status, time.Now())
	return err
}

func (r *loanRepository) UpdateLoanStatus(ctx context.Context, loanID uuid.UUID, status domain.LoanStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE loans SET status = $2, updated_at = $3 WHERE id = $1`, loanID, status, time.Now())
	return err
}

// ListDelinquent returns ids of ACTIVE loans that have accumulated at least
// threshold overdue, not fully paid installments as of the given date.
func (r *loanRepository) ListDelinquent(ctx context.Context, asOf time.Time, threshold int) ([]uuid.UUID, error) {
	query := `
		SELECT l.id
		FROM loans l
		JOIN repayment_schedule rs ON rs.loan_id = l.id
		WHERE l.status = $1 AND rs.status <> $2 AND rs.due_date < $3
		GROUP BY l.id
		HAVING COUNT(*) >= $4
	`

	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, domain.LoanStatusActive, domain.RepaymentStatusPaid, asOf, threshold)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
