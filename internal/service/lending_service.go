package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fintara/lending-engine/internal/config"
	"github.com/fintara/lending-engine/internal/domain"
	"github.com/fintara/lending-engine/internal/events"
	"github.com/fintara/lending-engine/internal/repository"
	customError "github.com/fintara/lending-engine/pkg/errors"
	"github.com/fintara/lending-engine/pkg/money"
)

type LendingService struct {
	CustomerRepo repository.CustomerRepository
	LoanRepo     repository.LoanRepository
	PaymentRepo  repository.PaymentRepository
	redis        *redis.Client
	publisher    events.Publisher
	config       *config.Config
}

func NewLendingService(
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	publisher events.Publisher,
	config *config.Config,
) *LendingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LendingService{
		CustomerRepo: customerRepo,
		LoanRepo:     loanRepo,
		PaymentRepo:  paymentRepo,
		redis:        redisClient,
		publisher:    publisher,
		config:       config,
	}
}

// CreateCustomer registers a new customer under a caller-supplied identifier
func (s *LendingService) CreateCustomer(ctx context.Context, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	customer := &domain.Customer{
		CustomerID: request.CustomerID,
		Name:       request.Name,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, customError.ErrCustomerAlreadyExists) {
			return nil, customError.WrapCustomerAlreadyExists(request.CustomerID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

// OriginateLoan creates a loan and fixes its repayment terms. Total payable
// and monthly EMI are computed once here and never change afterwards.
func (s *LendingService) OriginateLoan(ctx context.Context, request *domain.OriginateLoanRequest) (*domain.Loan, string, error) {
	if request.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return nil, "", customError.WrapInvalidArgument("loan_amount must be greater than zero")
	}
	if request.LoanPeriodYears <= 0 {
		return nil, "", customError.WrapInvalidArgument("loan_period_years must be greater than zero")
	}
	if request.InterestRateYearly.IsNegative() {
		return nil, "", customError.WrapInvalidArgument("interest_rate_yearly must not be negative")
	}

	customer, err := s.CustomerRepo.GetByID(ctx, request.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", customError.WrapCustomerNotFound(request.CustomerID)
		}
		return nil, "", customError.WrapDatabaseError(err)
	}

	total := money.TotalPayable(request.LoanAmount, request.InterestRateYearly, request.LoanPeriodYears)
	emi := money.MonthlyEMI(total, request.LoanPeriodYears)

	loan := &domain.Loan{
		LoanID:          uuid.New(),
		CustomerID:      customer.CustomerID,
		PrincipalAmount: request.LoanAmount,
		TotalAmount:     total,
		InterestRate:    request.InterestRateYearly,
		LoanPeriodYears: request.LoanPeriodYears,
		MonthlyEMI:      emi,
		Status:          domain.LoanStatusActive,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, "", customError.WrapDatabaseError(err)
	}

	s.publish(ctx, events.TopicLoanOriginated, events.LoanOriginated{
		LoanID:          loan.LoanID.String(),
		CustomerID:      loan.CustomerID,
		PrincipalAmount: loan.PrincipalAmount,
		TotalAmount:     loan.TotalAmount,
		MonthlyEMI:      loan.MonthlyEMI,
		OccurredAt:      loan.CreatedAt,
	})
	s.invalidateOverview(ctx, loan.CustomerID)

	return loan, customer.Name, nil
}

// MakePayment applies a payment against a loan's outstanding balance.
//
// The loan row is read FOR UPDATE inside a single transaction covering the
// balance check, the payment insert and any status flip, so two concurrent
// submissions against the same loan serialize and can never double-spend the
// remaining balance. The submitted amount is capped at the balance; the
// excess is reported as overpaid but never persisted, which keeps
// sum(payments) <= total_amount exact at all times.
func (s *LendingService) MakePayment(ctx context.Context, loanID uuid.UUID, request *domain.MakePaymentRequest) (*domain.PaymentResult, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidArgument("amount must be greater than zero")
	}

	tx, err := s.LoanRepo.BeginTx(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	defer s.LoanRepo.RollbackTx(tx)

	loan, err := s.LoanRepo.GetByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if loan.Status == domain.LoanStatusPaidOff {
		return nil, customError.WrapLoanAlreadyPaidOff()
	}

	paidSoFar, err := s.PaymentRepo.SumByLoanInTx(ctx, tx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// Double-check against the ledger, not the stored status: a loan whose
	// payments already cover the total is closed even if the status column
	// has not caught up yet.
	balanceBefore := loan.TotalAmount.Sub(paidSoFar)
	if balanceBefore.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapLoanAlreadyPaidOff()
	}

	amountToRecord := decimal.Min(request.Amount, balanceBefore)
	overpaid := request.Amount.Sub(amountToRecord)

	payment := &domain.Payment{
		PaymentID:   uuid.New(),
		LoanID:      loan.LoanID,
		Amount:      amountToRecord,
		PaymentType: request.PaymentType,
		PaymentDate: time.Now().UTC(),
	}

	if err := s.PaymentRepo.CreateInTx(ctx, tx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	newBalance := balanceBefore.Sub(amountToRecord)
	closed := newBalance.LessThan(s.config.GetCloseTolerance())

	if closed {
		if err := s.LoanRepo.UpdateStatusInTx(ctx, tx, loan.LoanID, domain.LoanStatusPaidOff); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		newBalance = decimal.Zero
	}

	if err := s.LoanRepo.CommitTx(tx); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.publish(ctx, events.TopicPaymentRecorded, events.PaymentRecorded{
		PaymentID:   payment.PaymentID.String(),
		LoanID:      loan.LoanID.String(),
		Amount:      payment.Amount,
		PaymentType: payment.PaymentType,
		OccurredAt:  payment.PaymentDate,
	})
	if closed {
		s.publish(ctx, events.TopicLoanClosed, events.LoanClosed{
			LoanID:     loan.LoanID.String(),
			CustomerID: loan.CustomerID,
			OccurredAt: payment.PaymentDate,
		})
	}
	s.invalidateOverview(ctx, loan.CustomerID)

	return &domain.PaymentResult{
		Payment:          payment,
		CustomerName:     loan.CustomerName,
		LoanClosed:       closed,
		OverpaidAmount:   overpaid,
		RemainingBalance: newBalance,
	}, nil
}

// GetLedger reconstructs a loan's financial state from its payment history.
// It is a pure read: calling it twice with no intervening payment yields
// identical output.
func (s *LendingService) GetLedger(ctx context.Context, loanID uuid.UUID) (*domain.Ledger, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	amountPaid := decimal.Zero
	for _, payment := range payments {
		amountPaid = amountPaid.Add(payment.Amount)
	}

	balance := money.ClampBalance(loan.TotalAmount.Sub(amountPaid))

	emisLeft, err := money.EMIsLeft(balance, loan.MonthlyEMI)
	if err != nil {
		return nil, err
	}

	return &domain.Ledger{
		Loan:         loan,
		AmountPaid:   amountPaid,
		Balance:      balance,
		EMIsLeft:     emisLeft,
		Transactions: payments,
	}, nil
}

// GetAccountOverview composes per-loan summary figures across all of a
// customer's loans, newest first. Only sums are fetched per loan, never the
// full payment list. The assembled view is cached in Redis and invalidated
// whenever a loan or payment for the customer is written.
func (s *LendingService) GetAccountOverview(ctx context.Context, customerID string) (*domain.AccountOverviewResponse, error) {
	if cached := s.cachedOverview(ctx, customerID); cached != nil {
		return cached, nil
	}

	customer, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(customerID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	loans, err := s.LoanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	overviewLoans := make([]domain.OverviewLoan, 0, len(loans))
	for _, loan := range loans {
		amountPaid, err := s.PaymentRepo.SumByLoan(ctx, loan.LoanID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		balance := money.ClampBalance(loan.TotalAmount.Sub(amountPaid))
		emisLeft, err := money.EMIsLeft(balance, loan.MonthlyEMI)
		if err != nil {
			return nil, err
		}

		overviewLoans = append(overviewLoans, domain.OverviewLoan{
			LoanID:        loan.LoanID.String(),
			Principal:     money.Format(loan.PrincipalAmount),
			TotalAmount:   money.Format(loan.TotalAmount),
			Status:        loan.Status,
			TotalInterest: money.Format(loan.TotalAmount.Sub(loan.PrincipalAmount)),
			EMIAmount:     money.Format(loan.MonthlyEMI),
			AmountPaid:    money.Format(amountPaid),
			EMIsLeft:      emisLeft,
			CreatedAt:     loan.CreatedAt,
		})
	}

	overview := &domain.AccountOverviewResponse{
		CustomerID:   customer.CustomerID,
		CustomerName: customer.Name,
		TotalLoans:   len(loans),
		Loans:        overviewLoans,
	}

	s.cacheOverview(ctx, customerID, overview)

	return overview, nil
}

func (s *LendingService) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		log.Printf("failed to publish %s event: %v", topic, err)
	}
}

func overviewCacheKey(customerID string) string {
	return fmt.Sprintf("overview:%s", customerID)
}

func (s *LendingService) cachedOverview(ctx context.Context, customerID string) *domain.AccountOverviewResponse {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, overviewCacheKey(customerID)).Bytes()
	if err != nil {
		return nil
	}

	var overview domain.AccountOverviewResponse
	if err := json.Unmarshal(data, &overview); err != nil {
		return nil
	}

	return &overview
}

func (s *LendingService) cacheOverview(ctx context.Context, customerID string, overview *domain.AccountOverviewResponse) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, overviewCacheKey(customerID), data, s.config.Business.OverviewCacheTTL).Err(); err != nil {
		log.Printf("failed to cache overview for customer %s: %v", customerID, err)
	}
}

func (s *LendingService) invalidateOverview(ctx context.Context, customerID string) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, overviewCacheKey(customerID)).Err(); err != nil {
		log.Printf("failed to invalidate overview cache for customer %s: %v", customerID, err)
	}
}
