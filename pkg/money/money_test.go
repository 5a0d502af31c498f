package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPayable(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		years     int
		expected  string
	}{
		{
			name:      "standard loan calculation",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromInt(10),
			years:     2,
			expected:  "120000.00", // 100,000 + 100,000 * 2 * 0.10
		},
		{
			name:      "zero interest rate",
			principal: decimal.NewFromInt(50000),
			rate:      decimal.Zero,
			years:     5,
			expected:  "50000.00",
		},
		{
			name:      "fractional rate rounds to two decimals",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.NewFromFloat(7.33),
			years:     3,
			expected:  "12199.00", // 10,000 + 10,000 * 3 * 0.0733
		},
		{
			name:      "one year single percent",
			principal: decimal.NewFromFloat(999.99),
			rate:      decimal.NewFromInt(1),
			years:     1,
			expected:  "1009.99", // interest 10.00 after rounding
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TotalPayable(tt.principal, tt.rate, tt.years)
			assert.Equal(t, tt.expected, result.StringFixed(2))
		})
	}
}

func TestMonthlyEMI(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		years    int
		expected string
	}{
		{
			name:     "even division",
			total:    decimal.NewFromInt(120000),
			years:    2,
			expected: "5000.00", // 120,000 / 24
		},
		{
			name:     "uneven division rounds at formatting only",
			total:    decimal.NewFromInt(100000),
			years:    3,
			expected: "2777.78", // 100,000 / 36, two decimals at the boundary
		},
		{
			name:     "single year",
			total:    decimal.NewFromInt(1200),
			years:    1,
			expected: "100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyEMI(tt.total, tt.years)
			assert.Equal(t, tt.expected, result.StringFixed(2))
		})
	}
}

func TestEMIsLeft(t *testing.T) {
	tests := []struct {
		name     string
		balance  decimal.Decimal
		emi      decimal.Decimal
		expected int
	}{
		{
			name:     "fresh loan",
			balance:  decimal.NewFromInt(120000),
			emi:      decimal.NewFromInt(5000),
			expected: 24,
		},
		{
			name:     "partial EMI rounds up",
			balance:  decimal.NewFromInt(5001),
			emi:      decimal.NewFromInt(5000),
			expected: 2,
		},
		{
			name:     "zero balance",
			balance:  decimal.Zero,
			emi:      decimal.NewFromInt(5000),
			expected: 0,
		},
		{
			name:     "negative balance clamps to zero",
			balance:  decimal.NewFromInt(-100),
			emi:      decimal.NewFromInt(5000),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EMIsLeft(tt.balance, tt.emi)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// A freshly originated loan must owe exactly years*12 installments, even when
// the total does not divide evenly by the month count. A rounded EMI of
// 833.33 against a 10,000 balance would report 13 here instead of 12.
func TestEMIsLeft_FreshLoanMatchesTerm(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		years     int
	}{
		{
			name:      "uneven zero-rate loan",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.Zero,
			years:     1,
		},
		{
			name:      "uneven interest-bearing loan",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromInt(10),
			years:     3,
		},
		{
			name:      "even division",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromInt(10),
			years:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := TotalPayable(tt.principal, tt.rate, tt.years)
			emi := MonthlyEMI(total, tt.years)

			left, err := EMIsLeft(total, emi)
			require.NoError(t, err)
			assert.Equal(t, tt.years*12, left)
		})
	}
}

func TestEMIsLeft_ZeroEMI(t *testing.T) {
	_, err := EMIsLeft(decimal.NewFromInt(1000), decimal.Zero)
	assert.Error(t, err)

	_, err = EMIsLeft(decimal.NewFromInt(1000), decimal.NewFromInt(-5))
	assert.Error(t, err)
}

func TestClampBalance(t *testing.T) {
	assert.True(t, ClampBalance(decimal.NewFromInt(-50)).IsZero())
	assert.Equal(t, "12.34", ClampBalance(decimal.NewFromFloat(12.34)).StringFixed(2))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.00", Format(decimal.Zero))
	assert.Equal(t, "10000.00", Format(decimal.NewFromInt(10000)))
	assert.Equal(t, "2777.78", Format(decimal.NewFromFloat(2777.775)))
}
