package dues

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateLateFee(t *testing.T) {
	rate := decimal.NewFromFloat(0.001)

	tests := []struct {
		name     string
		amount   string
		daysLate int
		want     string
	}{
		{name: "ten days on 1000", amount: "1000", daysLate: 10, want: "10.00"},
		{name: "not late", amount: "1000", daysLate: 0, want: "0.00"},
		{name: "negative days", amount: "1000", daysLate: -3, want: "0.00"},
		{name: "rounds to cents", amount: "333.33", daysLate: 7, want: "2.33"},
		{name: "rounds half up", amount: "125", daysLate: 1, want: "0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLateFee(decimal.RequireFromString(tt.amount), tt.daysLate, rate)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestNewLateFeePolicy(t *testing.T) {
	assert.True(t, NewLateFeePolicy(decimal.Zero).Rate.Equal(DefaultLateFeeRate))
	assert.True(t, NewLateFeePolicy(decimal.NewFromFloat(0.002)).Rate.Equal(decimal.NewFromFloat(0.002)))
}
