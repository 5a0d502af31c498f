package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Topics
const (
	TopicLoanOriginated  = "loan.originated"
	TopicPaymentRecorded = "payment.recorded"
	TopicLoanClosed      = "loan.closed"
)

type LoanOriginated struct {
	LoanID          string          `json:"loan_id"`
	CustomerID      string          `json:"customer_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

type PaymentRecorded struct {
	PaymentID   string          `json:"payment_id"`
	LoanID      string          `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type LoanClosed struct {
	LoanID     string    `json:"loan_id"`
	CustomerID string    `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events after the owning transaction commits.
// Implementations must not fail the business operation: a lost event is
// acceptable, a lost payment is not.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// NoopPublisher discards events; used in tests and when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}
