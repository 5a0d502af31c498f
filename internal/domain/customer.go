package domain

import (
	"time"
)

// Customer represents a borrower. The identifier is supplied by the caller
// and immutable after creation.
type Customer struct {
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Name       string    `json:"name" db:"name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

type CreateCustomerResponse struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}
