package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fintara/lending-engine/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by its caller-supplied identifier
	GetByID(ctx context.Context, customerID string) (*domain.Customer, error)
}

// LoanRepository defines the interface for loan data operations. Payment
// application reads the loan row through GetByIDForUpdate inside a
// transaction so that two concurrent payments against the same loan
// serialize at the database.
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan joined with its owner's name
	GetByID(ctx context.Context, loanID uuid.UUID) (*domain.LoanWithCustomer, error)

	// GetByIDForUpdate retrieves a loan with a row lock held for the
	// lifetime of tx
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.LoanWithCustomer, error)

	// ListByCustomer retrieves all loans for a customer, newest first
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error)

	// ListActive retrieves all loans still marked ACTIVE
	ListActive(ctx context.Context) ([]*domain.Loan, error)

	// UpdateStatus updates a loan's status
	UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error

	// UpdateStatusInTx updates a loan's status within tx
	UpdateStatusInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID, status string) error

	// BeginTx starts a transaction
	BeginTx(ctx context.Context) (*sqlx.Tx, error)

	// CommitTx commits tx
	CommitTx(tx *sqlx.Tx) error

	// RollbackTx rolls back tx; safe to call after a commit
	RollbackTx(tx *sqlx.Tx) error
}

// PaymentRepository defines the interface for payment data operations.
// Payments are append-only; there are no update or delete operations.
type PaymentRepository interface {
	// CreateInTx appends a payment record within tx
	CreateInTx(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error

	// ListByLoan retrieves a loan's payments ordered by payment date,
	// insertion order breaking ties
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// SumByLoan returns the total amount paid against a loan
	SumByLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error)

	// SumByLoanInTx returns the total amount paid against a loan within tx
	SumByLoanInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (decimal.Decimal, error)
}
