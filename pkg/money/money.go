package money

import (
	"github.com/shopspring/decimal"

	customError "github.com/fintara/lending-engine/pkg/errors"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// TotalPayable calculates the total amount owed over the life of a loan
// Formula: Principal + Principal * Years * (Rate / 100), simple interest
func TotalPayable(principal decimal.Decimal, yearlyRate decimal.Decimal, years int) decimal.Decimal {
	interest := principal.Mul(decimal.NewFromInt(int64(years))).Mul(yearlyRate.Div(hundred))
	total := principal.Add(interest)

	// Round to 2 decimal places
	return total.Round(2)
}

// MonthlyEMI calculates the fixed monthly installment for a loan
// Formula: Total / (Years * 12)
//
// The quotient is kept at full precision. Rounding it here would make
// ceil(total/emi) overshoot the loan term whenever the total does not divide
// evenly by the number of months; two-decimal rendering happens only in
// Format at the API boundary.
func MonthlyEMI(total decimal.Decimal, years int) decimal.Decimal {
	months := decimal.NewFromInt(int64(years)).Mul(monthsPerYear)
	return total.Div(months)
}

// EMIsLeft returns how many monthly installments remain to cover the balance,
// rounded up and never negative. A zero or negative EMI cannot occur for a
// loan created through origination; treat it as data corruption.
func EMIsLeft(balance decimal.Decimal, emi decimal.Decimal) (int, error) {
	if emi.LessThanOrEqual(decimal.Zero) {
		return 0, customError.WrapInvalidState("monthly EMI must be positive")
	}

	if balance.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}

	return int(balance.Div(emi).Ceil().IntPart()), nil
}

// ClampBalance floors a balance at zero so inconsistent upstream data can
// never surface as a negative amount owed.
func ClampBalance(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// Format renders an amount as a two-decimal string for the API boundary
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
