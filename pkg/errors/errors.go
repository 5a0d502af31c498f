package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	ErrLoanNotFound          = errors.New("loan not found")
	ErrLoanAlreadyPaidOff    = errors.New("loan has already been paid off")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidState          = errors.New("invalid loan state")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	ErrCodeCustomerAlreadyExists = "CUSTOMER_ALREADY_EXISTS"
	ErrCodeLoanNotFound          = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyPaidOff    = "LOAN_ALREADY_PAID_OFF"
	ErrCodeInvalidArgument       = "INVALID_ARGUMENT"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
)

// Wrap common errors with business context
func WrapCustomerNotFound(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with ID %s not found.", customerID),
		ErrCustomerNotFound,
	)
}

func WrapCustomerAlreadyExists(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerAlreadyExists,
		fmt.Sprintf("Customer with ID %s already exists.", customerID),
		ErrCustomerAlreadyExists,
	)
}

func WrapLoanNotFound() *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		"Loan not found.",
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyPaidOff() *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyPaidOff,
		"This loan has already been paid off.",
		ErrLoanAlreadyPaidOff,
	)
}

func WrapInvalidArgument(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidArgument,
		message,
		ErrInvalidArgument,
	)
}

func WrapInvalidState(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidState,
		message,
		ErrInvalidState,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
