package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// IsDateOverdue reports whether a due date lies strictly before the
// reference date.
func IsDateOverdue(dueDate, asOf time.Time) bool {
	return dueDate.Before(asOf)
}

// SumDecimals adds a slice of decimals.
func SumDecimals(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

// AverageDecimals returns the mean of a slice of decimals rounded to
// 2 decimal places, or zero for an empty slice.
func AverageDecimals(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return SumDecimals(values).Div(decimal.NewFromInt(int64(len(values)))).Round(2)
}

// PercentOf returns part/whole as a percentage rounded to 2 decimal
// places, or zero when whole is not positive.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.Sign() <= 0 {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
