package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fintara/lending-engine/internal/domain"
	"github.com/fintara/lending-engine/internal/service"
	customError "github.com/fintara/lending-engine/pkg/errors"
	"github.com/fintara/lending-engine/pkg/money"
	"github.com/fintara/lending-engine/pkg/response"
)

type LendingHandler struct {
	service   *service.LendingService
	validator *validator.Validate
}

func NewLendingHandler(service *service.LendingService) *LendingHandler {
	return &LendingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateCustomer handles POST /api/v1/customers
func (h *LendingHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "customer_id and name are required.")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.CreateCustomerResponse{
		Message:    "Customer created successfully.",
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
	})
}

// OriginateLoan handles POST /api/v1/loans
func (h *LendingHandler) OriginateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.OriginateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "customer_id, loan_amount, loan_period_years and interest_rate_yearly are required.")
		return
	}

	loan, customerName, err := h.service.OriginateLoan(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.OriginateLoanResponse{
		LoanID:             loan.LoanID.String(),
		CustomerID:         loan.CustomerID,
		CustomerName:       customerName,
		TotalAmountPayable: money.Format(loan.TotalAmount),
		MonthlyEMI:         money.Format(loan.MonthlyEMI),
	})
}

// MakePayment handles POST /api/v1/loans/{loanId}/payments
func (h *LendingHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := parseLoanID(w, r)
	if !ok {
		return
	}

	var request domain.MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.MakePayment(r.Context(), loanID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Payment recorded successfully."
	if result.LoanClosed {
		message = "Loan has been fully paid and is now closed."
	}

	response.Success(w, domain.MakePaymentResponse{
		PaymentID:        result.Payment.PaymentID.String(),
		LoanID:           result.Payment.LoanID.String(),
		CustomerName:     result.CustomerName,
		Message:          message,
		LoanClosed:       result.LoanClosed,
		OverpaidAmount:   money.Format(result.OverpaidAmount),
		RemainingBalance: money.Format(result.RemainingBalance),
	})
}

// GetLedger handles GET /api/v1/loans/{loanId}/ledger
func (h *LendingHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	loanID, ok := parseLoanID(w, r)
	if !ok {
		return
	}

	ledger, err := h.service.GetLedger(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	transactions := make([]domain.LedgerTransaction, 0, len(ledger.Transactions))
	for _, payment := range ledger.Transactions {
		transactions = append(transactions, domain.LedgerTransaction{
			TransactionID: payment.PaymentID.String(),
			Date:          payment.PaymentDate,
			Amount:        money.Format(payment.Amount),
			Type:          payment.PaymentType,
		})
	}

	response.Success(w, domain.LedgerResponse{
		LoanID:        ledger.Loan.LoanID.String(),
		CustomerID:    ledger.Loan.CustomerID,
		CustomerName:  ledger.Loan.CustomerName,
		Principal:     money.Format(ledger.Loan.PrincipalAmount),
		TotalAmount:   money.Format(ledger.Loan.TotalAmount),
		MonthlyEMI:    money.Format(ledger.Loan.MonthlyEMI),
		Status:        ledger.Loan.Status,
		AmountPaid:    money.Format(ledger.AmountPaid),
		BalanceAmount: money.Format(ledger.Balance),
		EMIsLeft:      ledger.EMIsLeft,
		Transactions:  transactions,
	})
}

// GetAccountOverview handles GET /api/v1/customers/{customerId}/overview
func (h *LendingHandler) GetAccountOverview(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	overview, err := h.service.GetAccountOverview(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, overview)
}

func parseLoanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	// A malformed id can never match a loan, so report it the same way as an
	// unknown one
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.NotFound(w, "Loan not found.")
		return uuid.Nil, false
	}
	return loanID, true
}

func writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	message := "internal server error"
	if errors.As(err, &businessErr) {
		message = businessErr.Message
	}

	switch {
	case errors.Is(err, customError.ErrCustomerNotFound),
		errors.Is(err, customError.ErrLoanNotFound):
		response.NotFound(w, message)
	case errors.Is(err, customError.ErrCustomerAlreadyExists):
		response.Conflict(w, message)
	case errors.Is(err, customError.ErrLoanAlreadyPaidOff),
		errors.Is(err, customError.ErrInvalidArgument):
		response.BadRequest(w, message)
	default:
		response.InternalServerError(w, "internal server error")
	}
}
