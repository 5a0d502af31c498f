package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fintara/lending-engine/internal/domain"
	customError "github.com/fintara/lending-engine/pkg/errors"
)

// Postgres class 23505: unique_violation
const pqUniqueViolation = "23505"

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.CreatedAt,
	)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
		return customError.ErrCustomerAlreadyExists
	}

	return err
}

func (r *customerRepository) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, name, created_at
		FROM customers
		WHERE customer_id = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, customerID)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}
