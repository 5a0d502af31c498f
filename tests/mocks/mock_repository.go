package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fintara/lending-engine/internal/domain"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, loanID uuid.UUID) (*domain.LoanWithCustomer, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanWithCustomer), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.LoanWithCustomer, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanWithCustomer), args.Error(1)
}

func (m *MockLoanRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error {
	args := m.Called(ctx, loanID, status)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateStatusInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID, status string) error {
	args := m.Called(ctx, tx, loanID, status)
	return args.Error(0)
}

func (m *MockLoanRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqlx.Tx), args.Error(1)
}

func (m *MockLoanRepository) CommitTx(tx *sqlx.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockLoanRepository) RollbackTx(tx *sqlx.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateInTx(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumByLoanInTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
