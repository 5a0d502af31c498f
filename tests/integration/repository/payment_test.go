package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintara/lending-engine/internal/domain"
	"github.com/fintara/lending-engine/internal/repository"
)

func insertTestPayment(t *testing.T, db *sqlx.DB, loanID uuid.UUID, amount int64, paymentDate time.Time) *domain.Payment {
	t.Helper()

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	tx, err := loanRepo.BeginTx(ctx)
	require.NoError(t, err)
	defer loanRepo.RollbackTx(tx)

	payment := &domain.Payment{
		PaymentID:   uuid.New(),
		LoanID:      loanID,
		Amount:      decimal.NewFromInt(amount),
		PaymentType: "EMI",
		PaymentDate: paymentDate,
	}
	require.NoError(t, paymentRepo.CreateInTx(ctx, tx, payment))
	require.NoError(t, loanRepo.CommitTx(tx))

	return payment
}

func TestPaymentRepository_SumByLoan_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPaymentRepository(db)

	customer := createTestCustomer(t, db, "CUST-PAY-001")
	loan := createTestLoan(t, db, customer.CustomerID)

	total, err := repo.SumByLoan(context.Background(), loan.LoanID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestPaymentRepository_SumByLoan(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPaymentRepository(db)

	customer := createTestCustomer(t, db, "CUST-PAY-002")
	loan := createTestLoan(t, db, customer.CustomerID)
	other := createTestLoan(t, db, customer.CustomerID)

	now := time.Now().UTC()
	insertTestPayment(t, db, loan.LoanID, 5000, now)
	insertTestPayment(t, db, loan.LoanID, 7500, now.Add(time.Minute))
	insertTestPayment(t, db, other.LoanID, 9999, now)

	total, err := repo.SumByLoan(context.Background(), loan.LoanID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(12500)), "expected 12500, got %s", total)
}

func TestPaymentRepository_ListByLoan_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPaymentRepository(db)

	customer := createTestCustomer(t, db, "CUST-PAY-003")
	loan := createTestLoan(t, db, customer.CustomerID)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := insertTestPayment(t, db, loan.LoanID, 2000, base.Add(time.Hour))
	first := insertTestPayment(t, db, loan.LoanID, 1000, base)
	// Same timestamp as second: insertion order must break the tie
	third := insertTestPayment(t, db, loan.LoanID, 3000, base.Add(time.Hour))

	payments, err := repo.ListByLoan(context.Background(), loan.LoanID)
	require.NoError(t, err)
	require.Len(t, payments, 3)

	assert.Equal(t, first.PaymentID, payments[0].PaymentID)
	assert.Equal(t, second.PaymentID, payments[1].PaymentID)
	assert.Equal(t, third.PaymentID, payments[2].PaymentID)
}

func TestPaymentRepository_SumInTxSeesUncommittedPayment(t *testing.T) {
	db := setupTestDB(t)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db, "CUST-PAY-004")
	loan := createTestLoan(t, db, customer.CustomerID)

	tx, err := loanRepo.BeginTx(ctx)
	require.NoError(t, err)
	defer loanRepo.RollbackTx(tx)

	payment := &domain.Payment{
		PaymentID:   uuid.New(),
		LoanID:      loan.LoanID,
		Amount:      decimal.NewFromInt(4000),
		PaymentType: "LUMP_SUM",
		PaymentDate: time.Now().UTC(),
	}
	require.NoError(t, paymentRepo.CreateInTx(ctx, tx, payment))

	inTx, err := paymentRepo.SumByLoanInTx(ctx, tx, loan.LoanID)
	require.NoError(t, err)
	assert.True(t, inTx.Equal(decimal.NewFromInt(4000)))

	// Not visible outside the transaction until commit
	outside, err := paymentRepo.SumByLoan(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.True(t, outside.IsZero())

	require.NoError(t, loanRepo.CommitTx(tx))

	committed, err := paymentRepo.SumByLoan(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.True(t, committed.Equal(decimal.NewFromInt(4000)))
}
