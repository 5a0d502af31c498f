package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry. The recorded amount is always
// capped at the loan's outstanding balance at the time it was recorded, so
// the sum of a loan's payments can never exceed its total amount. Seq is a
// database-assigned sequence used to break ordering ties between payments
// sharing a timestamp.
type Payment struct {
	PaymentID   uuid.UUID       `json:"payment_id" db:"payment_id"`
	LoanID      uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Seq         int64           `json:"-" db:"seq"`
}

// PaymentResult is the outcome of applying a payment. OverpaidAmount is the
// portion of the submitted amount that exceeded the outstanding balance; it
// is reported to the caller but never persisted.
type PaymentResult struct {
	Payment          *Payment
	CustomerName     string
	LoanClosed       bool
	OverpaidAmount   decimal.Decimal
	RemainingBalance decimal.Decimal
}

// DTOs for requests and responses

type MakePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
}

type MakePaymentResponse struct {
	PaymentID        string `json:"payment_id"`
	LoanID           string `json:"loan_id"`
	CustomerName     string `json:"customer_name"`
	Message          string `json:"message"`
	LoanClosed       bool   `json:"loan_closed"`
	OverpaidAmount   string `json:"overpaid_amount"`
	RemainingBalance string `json:"remaining_balance"`
}
