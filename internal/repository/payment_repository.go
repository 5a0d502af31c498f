package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fintara/lending-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateInTx(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, loan_id, amount, payment_type, payment_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.PaymentID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentType,
		payment.PaymentDate,
	)

	return err
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT payment_id, loan_id, amount, payment_type, payment_date, seq
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date ASC, seq ASC
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

const sumByLoanQuery = `
	SELECT COALESCE(SUM(amount), 0)
	FROM payments
	WHERE loan_id = $1
`

func (r *paymentRepository) SumByLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, sumByLoanQuery, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *paymentRepository) SumByLoanInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.GetContext(ctx, &total, sumByLoanQuery, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
