package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loancore/loan-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, payments []*domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, schedule_id, amount, payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, payment := range payments {
		_, err := tx.ExecContext(ctx, query,
			payment.ID,
			payment.LoanID,
			payment.ScheduleID,
			payment.Amount,
			payment.PaymentDate,
			payment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, schedule_id, amount, payment_date, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY created_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
