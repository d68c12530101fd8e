package dues

import (
	"github.com/shopspring/decimal"
)

// DefaultLateFeeRate is the daily penalty rate (0.1% per day)
var DefaultLateFeeRate = decimal.NewFromFloat(0.001)

// LateFeePolicy holds the parameters of late fee accrual
type LateFeePolicy struct {
	Rate decimal.Decimal
}

// DefaultLateFeePolicy returns the policy with the default daily rate
func DefaultLateFeePolicy() LateFeePolicy {
	return LateFeePolicy{Rate: DefaultLateFeeRate}
}

// NewLateFeePolicy creates a policy, falling back to the default for non-positive rates
func NewLateFeePolicy(rate decimal.Decimal) LateFeePolicy {
	if rate.LessThanOrEqual(decimal.Zero) {
		return DefaultLateFeePolicy()
	}
	return LateFeePolicy{Rate: rate}
}

// Calculate returns round(amount * rate * daysLate, 2), or zero when not late
func (p LateFeePolicy) Calculate(amount decimal.Decimal, daysLate int) decimal.Decimal {
	return CalculateLateFee(amount, daysLate, p.Rate)
}

// CalculateLateFee returns round(amount * rate * daysLate, 2), or zero when daysLate <= 0
func CalculateLateFee(amount decimal.Decimal, daysLate int, rate decimal.Decimal) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return amount.Mul(rate).Mul(decimal.NewFromInt(int64(daysLate))).Round(2)
}
