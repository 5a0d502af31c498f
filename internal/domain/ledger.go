package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the reconstructed view of a loan's financial state, derived
// entirely from its payment history
type Ledger struct {
	Loan         *LoanWithCustomer
	AmountPaid   decimal.Decimal
	Balance      decimal.Decimal
	EMIsLeft     int
	Transactions []*Payment
}

// Read-model DTOs. Both views are pure projections over the payment ledger;
// amounts are formatted to two decimals at this boundary and nowhere earlier.

type LedgerTransaction struct {
	TransactionID string    `json:"transaction_id"`
	Date          time.Time `json:"date"`
	Amount        string    `json:"amount"`
	Type          string    `json:"type"`
}

type LedgerResponse struct {
	LoanID        string              `json:"loan_id"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	Principal     string              `json:"principal"`
	TotalAmount   string              `json:"total_amount"`
	MonthlyEMI    string              `json:"monthly_emi"`
	Status        string              `json:"status"`
	AmountPaid    string              `json:"amount_paid"`
	BalanceAmount string              `json:"balance_amount"`
	EMIsLeft      int                 `json:"emis_left"`
	Transactions  []LedgerTransaction `json:"transactions"`
}

type OverviewLoan struct {
	LoanID        string    `json:"loan_id"`
	Principal     string    `json:"principal"`
	TotalAmount   string    `json:"total_amount"`
	Status        string    `json:"status"`
	TotalInterest string    `json:"total_interest"`
	EMIAmount     string    `json:"emi_amount"`
	AmountPaid    string    `json:"amount_paid"`
	EMIsLeft      int       `json:"emis_left"`
	CreatedAt     time.Time `json:"created_at"`
}

type AccountOverviewResponse struct {
	CustomerID   string         `json:"customer_id"`
	CustomerName string         `json:"customer_name"`
	TotalLoans   int            `json:"total_loans"`
	Loans        []OverviewLoan `json:"loans"`
}
