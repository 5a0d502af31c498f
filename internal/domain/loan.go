package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "ACTIVE"
	LoanStatusPaidOff = "PAID_OFF"
)

// Loan represents a loan entity. Principal, rate, term, total amount and EMI
// are fixed at origination; only the status evolves, and only ever from
// ACTIVE to PAID_OFF. Amount paid is never stored here - it is derived from
// the payment ledger on every read.
type Loan struct {
	LoanID          uuid.UUID       `json:"loan_id" db:"loan_id"`
	CustomerID      string          `json:"customer_id" db:"customer_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	LoanPeriodYears int             `json:"loan_period_years" db:"loan_period_years"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi" db:"monthly_emi"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// LoanWithCustomer carries a loan row joined with its owner's display name
type LoanWithCustomer struct {
	Loan
	CustomerName string `db:"customer_name"`
}

// DTOs for requests and responses

type OriginateLoanRequest struct {
	CustomerID         string          `json:"customer_id" validate:"required"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	LoanPeriodYears    int             `json:"loan_period_years" validate:"required,gt=0"`
	InterestRateYearly decimal.Decimal `json:"interest_rate_yearly"`
}

type OriginateLoanResponse struct {
	LoanID             string `json:"loan_id"`
	CustomerID         string `json:"customer_id"`
	CustomerName       string `json:"customer_name"`
	TotalAmountPayable string `json:"total_amount_payable"`
	MonthlyEMI         string `json:"monthly_emi"`
}
