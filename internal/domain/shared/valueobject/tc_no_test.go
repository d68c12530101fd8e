package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTCNo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid number", input: "10000000146"},
		{name: "valid sequential number", input: "12345678950"},
		{name: "too short", input: "1234567895", wantErr: ErrTCNoLength},
		{name: "too long", input: "123456789500", wantErr: ErrTCNoLength},
		{name: "non digit", input: "1234567895a", wantErr: ErrTCNoDigits},
		{name: "leading zero", input: "02345678950", wantErr: ErrTCNoLeading},
		{name: "wrong tenth digit", input: "12345678940", wantErr: ErrTCNoChecksum},
		{name: "wrong eleventh digit", input: "12345678951", wantErr: ErrTCNoChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTCNo(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTCNo(t *testing.T) {
	t.Run("trims and keeps value", func(t *testing.T) {
		tc, err := NewTCNo(" 10000000146 ")
		require.NoError(t, err)
		assert.Equal(t, "10000000146", tc.String())
		assert.Equal(t, "*******0146", tc.Masked())
		assert.False(t, tc.IsZero())
	})

	t.Run("rejects invalid", func(t *testing.T) {
		tc, err := NewTCNo("11111111111")
		assert.Error(t, err)
		assert.True(t, tc.IsZero())
	})
}
