package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintara/lending-engine/internal/config"
	"github.com/fintara/lending-engine/internal/domain"
	"github.com/fintara/lending-engine/internal/repository"
	customError "github.com/fintara/lending-engine/pkg/errors"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Connect to postgres database to create test database
	cfg.Database.Name = "postgres"
	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to postgres database: %v", err))
	}
	defer adminDB.Close()

	// Create test database
	testDBName := "lending_engine_test"
	adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
	_, err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName))
	if err != nil {
		panic(fmt.Sprintf("Failed to create test database: %v", err))
	}

	// Connect to test database
	cfg.Database.Name = testDBName
	testDB, err = sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	// Execute init.sql to create tables
	if err := executeInitSQL(testDB); err != nil {
		panic(fmt.Sprintf("Failed to initialize database schema: %v", err))
	}
}

func teardown() {
	if testDB != nil {
		testDB.Close()
	}

	// Drop test database
	cfg, _ := config.Load()
	cfg.Database.Name = "postgres"

	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return
	}
	defer adminDB.Close()

	adminDB.Exec("DROP DATABASE IF EXISTS lending_engine_test")
}

func executeInitSQL(db *sqlx.DB) error {
	sqlBytes, err := os.ReadFile("../../../scripts/init.sql")
	if err != nil {
		return fmt.Errorf("failed to read init.sql: %w", err)
	}

	_, err = db.Exec(string(sqlBytes))
	if err != nil {
		return fmt.Errorf("failed to execute init.sql: %w", err)
	}

	return nil
}

func setupTestDB(t *testing.T) *sqlx.DB {
	cleanupTestData(testDB)
	return testDB
}

func cleanupTestData(db *sqlx.DB) {
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM loans")
	db.Exec("DELETE FROM customers")
}

func createTestCustomer(t *testing.T, db *sqlx.DB, customerID string) *domain.Customer {
	t.Helper()

	repo := repository.NewCustomerRepository(db)
	customer := &domain.Customer{
		CustomerID: customerID,
		Name:       "Test Borrower",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), customer))
	return customer
}

func createTestLoan(t *testing.T, db *sqlx.DB, customerID string) *domain.Loan {
	t.Helper()

	repo := repository.NewLoanRepository(db)
	loan := &domain.Loan{
		LoanID:          uuid.New(),
		CustomerID:      customerID,
		PrincipalAmount: decimal.NewFromInt(100000),
		TotalAmount:     decimal.NewFromInt(120000),
		InterestRate:    decimal.NewFromInt(10),
		LoanPeriodYears: 2,
		MonthlyEMI:      decimal.NewFromInt(5000),
		Status:          domain.LoanStatusActive,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), loan))
	return loan
}

func TestCustomerRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	customer := &domain.Customer{
		CustomerID: "CUST-001",
		Name:       "Ada Lovelace",
		CreatedAt:  time.Now().UTC(),
	}

	err := repo.Create(ctx, customer)
	require.NoError(t, err)

	// Duplicate ids are rejected
	err = repo.Create(ctx, customer)
	assert.ErrorIs(t, err, customError.ErrCustomerAlreadyExists)
}

func TestCustomerRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	created := createTestCustomer(t, db, "CUST-002")

	found, err := repo.GetByID(ctx, created.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, created.CustomerID, found.CustomerID)
	assert.Equal(t, created.Name, found.Name)

	_, err = repo.GetByID(ctx, "NO-SUCH-CUSTOMER")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLoanRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db, "CUST-003")
	loan := createTestLoan(t, db, customer.CustomerID)

	found, err := repo.GetByID(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, loan.LoanID, found.LoanID)
	assert.Equal(t, customer.Name, found.CustomerName)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(120000)))
	assert.True(t, found.MonthlyEMI.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, domain.LoanStatusActive, found.Status)
}

func TestLoanRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLoanRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLoanRepository_ListByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db, "CUST-004")

	older := createTestLoan(t, db, customer.CustomerID)
	// Make ordering deterministic
	_, err := db.Exec("UPDATE loans SET created_at = created_at - interval '1 hour' WHERE loan_id = $1", older.LoanID)
	require.NoError(t, err)
	newer := createTestLoan(t, db, customer.CustomerID)

	loans, err := repo.ListByCustomer(ctx, customer.CustomerID)
	require.NoError(t, err)
	require.Len(t, loans, 2)

	// Newest first
	assert.Equal(t, newer.LoanID, loans[0].LoanID)
	assert.Equal(t, older.LoanID, loans[1].LoanID)
}

func TestLoanRepository_UpdateStatusAndListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db, "CUST-005")
	first := createTestLoan(t, db, customer.CustomerID)
	second := createTestLoan(t, db, customer.CustomerID)

	require.NoError(t, repo.UpdateStatus(ctx, first.LoanID, domain.LoanStatusPaidOff))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.LoanID, active[0].LoanID)

	closed, err := repo.GetByID(ctx, first.LoanID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPaidOff, closed.Status)
}

func TestLoanRepository_GetByIDForUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db, "CUST-006")
	loan := createTestLoan(t, db, customer.CustomerID)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer repo.RollbackTx(tx)

	locked, err := repo.GetByIDForUpdate(ctx, tx, loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, loan.LoanID, locked.LoanID)
	assert.Equal(t, customer.Name, locked.CustomerName)

	require.NoError(t, repo.UpdateStatusInTx(ctx, tx, loan.LoanID, domain.LoanStatusPaidOff))
	require.NoError(t, repo.CommitTx(tx))

	updated, err := repo.GetByID(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPaidOff, updated.Status)
}
