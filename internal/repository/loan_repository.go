package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fintara/lending-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (loan_id, customer_id, principal_amount, total_amount, interest_rate, loan_period_years, monthly_emi, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.CustomerID,
		loan.PrincipalAmount,
		loan.TotalAmount,
		loan.InterestRate,
		loan.LoanPeriodYears,
		loan.MonthlyEMI,
		loan.Status,
		loan.CreatedAt,
	)

	return err
}

const loanWithCustomerQuery = `
	SELECT l.loan_id, l.customer_id, l.principal_amount, l.total_amount, l.interest_rate, l.loan_period_years, l.monthly_emi, l.status, l.created_at, c.name AS customer_name
	FROM loans l
	JOIN customers c ON c.customer_id = l.customer_id
	WHERE l.loan_id = $1
`

func (r *loanRepository) GetByID(ctx context.Context, loanID uuid.UUID) (*domain.LoanWithCustomer, error) {
	var loan domain.LoanWithCustomer
	err := r.db.GetContext(ctx, &loan, loanWithCustomerQuery, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.LoanWithCustomer, error) {
	// Lock only the loan row; the customer row stays readable
	query := loanWithCustomerQuery + ` FOR UPDATE OF l`

	var loan domain.LoanWithCustomer
	err := tx.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	query := `
		SELECT loan_id, customer_id, principal_amount, total_amount, interest_rate, loan_period_years, monthly_emi, status, created_at
		FROM loans
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, customerID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT loan_id, customer_id, principal_amount, total_amount, interest_rate, loan_period_years, monthly_emi, status, created_at
		FROM loans
		WHERE status = $1
		ORDER BY created_at
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, status)
	return err
}

func (r *loanRepository) UpdateStatusInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2
		WHERE loan_id = $1
	`

	_, err := tx.ExecContext(ctx, query, loanID, status)
	return err
}

func (r *loanRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *loanRepository) CommitTx(tx *sqlx.Tx) error {
	return tx.Commit()
}

func (r *loanRepository) RollbackTx(tx *sqlx.Tx) error {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
