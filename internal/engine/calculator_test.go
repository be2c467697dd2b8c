package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loancore/loan-engine/internal/domain"
	"github.com/loancore/loan-engine/internal/engine"
	customError "github.com/loancore/loan-engine/pkg/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTerms(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		principal      decimal.Decimal
		periodMonths   int
		ratePercent    decimal.Decimal
		frequency      domain.Frequency
		expectedTotal  decimal.Decimal
		expectedAmount decimal.Decimal
		expectedCount  int
		expectedDue    time.Time
	}{
		{
			name:           "Monthly - 1000 at 10% over 12 months",
			principal:      d("1000"),
			periodMonths:   12,
			ratePercent:    d("10"),
			frequency:      domain.FrequencyMonthly,
			expectedTotal:  d("1100.00"),
			expectedAmount: d("91.67"),
			expectedCount:  12,
			expectedDue:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "Weekly - 6 month period yields 27 installments",
			principal:      d("1000"),
			periodMonths:   6,
			ratePercent:    d("10"),
			frequency:      domain.FrequencyWeekly,
			expectedTotal:  d("1050.00"),
			expectedAmount: d("38.89"),
			expectedCount:  27,
			expectedDue:    time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "Zero rate - total equals principal",
			principal:      d("2400"),
			periodMonths:   24,
			ratePercent:    d("0"),
			frequency:      domain.FrequencyMonthly,
			expectedTotal:  d("2400.00"),
			expectedAmount: d("100.00"),
			expectedCount:  24,
			expectedDue:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:           "Fractional interest rounds half up",
			principal:      d("999.99"),
			periodMonths:   7,
			ratePercent:    d("13"),
			frequency:      domain.FrequencyMonthly,
			expectedTotal:  d("1075.82"), // 999.99 + 999.99*0.13*(7/12) = 1075.8159...
			expectedAmount: d("153.69"),
			expectedCount:  7,
			expectedDue:    time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := engine.CalculateTerms(tt.principal, tt.periodMonths, tt.ratePercent, tt.frequency, asOf)

			require.NoError(t, err)
			assert.True(t, terms.TotalRepayable.Equal(tt.expectedTotal),
				"total: expected %s, got %s", tt.expectedTotal, terms.TotalRepayable)
			assert.True(t, terms.InstallmentAmount.Equal(tt.expectedAmount),
				"installment: expected %s, got %s", tt.expectedAmount, terms.InstallmentAmount)
			assert.Equal(t, tt.expectedCount, terms.InstallmentCount)
			assert.Equal(t, tt.expectedDue, terms.DueDate)
		})
	}
}

func TestCalculateTermsInvalid(t *testing.T) {
	asOf := time.Now()

	tests := []struct {
		name         string
		principal    decimal.Decimal
		periodMonths int
		ratePercent  decimal.Decimal
		frequency    domain.Frequency
	}{
		{"Zero principal", d("0"), 12, d("10"), domain.FrequencyMonthly},
		{"Negative principal", d("-500"), 12, d("10"), domain.FrequencyMonthly},
		{"Zero period", d("1000"), 0, d("10"), domain.FrequencyMonthly},
		{"Negative period", d("1000"), -3, d("10"), domain.FrequencyWeekly},
		{"Negative rate", d("1000"), 12, d("-1"), domain.FrequencyMonthly},
		{"Unsupported frequency", d("1000"), 12, d("10"), domain.Frequency("DAILY")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := engine.CalculateTerms(tt.principal, tt.periodMonths, tt.ratePercent, tt.frequency, asOf)

			assert.Nil(t, terms)
			assert.ErrorIs(t, err, customError.ErrInvalidTerms)
		})
	}
}

func TestCalculateTermsIsDeterministic(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := engine.CalculateTerms(d("5000000"), 10, d("10"), domain.FrequencyWeekly, asOf)
	require.NoError(t, err)
	second, err := engine.CalculateTerms(d("5000000"), 10, d("10"), domain.FrequencyWeekly, asOf)
	require.NoError(t, err)

	assert.True(t, first.TotalRepayable.Equal(second.TotalRepayable))
	assert.True(t, first.InstallmentAmount.Equal(second.InstallmentAmount))
	assert.Equal(t, first.InstallmentCount, second.InstallmentCount)
	assert.Equal(t, first.DueDate, second.DueDate)
}
