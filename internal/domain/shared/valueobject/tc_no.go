package valueobject

import (
	"errors"
	"strings"
)

// TCNo is a Turkish national identity number.
// It is immutable and always holds a checksum-valid value once constructed.
type TCNo struct {
	value string
}

var (
	ErrTCNoLength   = errors.New("national id must have 11 digits")
	ErrTCNoDigits   = errors.New("national id must contain only digits")
	ErrTCNoLeading  = errors.New("national id cannot start with 0")
	ErrTCNoChecksum = errors.New("national id checksum mismatch")
)

// NewTCNo parses and validates a national id
func NewTCNo(raw string) (TCNo, error) {
	raw = strings.TrimSpace(raw)
	if err := ValidateTCNo(raw); err != nil {
		return TCNo{}, err
	}
	return TCNo{value: raw}, nil
}

// ValidateTCNo checks length, leading digit and the two check digits.
// d10 = ((d1+d3+d5+d7+d9)*7 - (d2+d4+d6+d8)) mod 10
// d11 = (d1+...+d10) mod 10
func ValidateTCNo(raw string) error {
	if len(raw) != 11 {
		return ErrTCNoLength
	}
	var d [11]int
	for i, r := range raw {
		if r < '0' || r > '9' {
			return ErrTCNoDigits
		}
		d[i] = int(r - '0')
	}
	if d[0] == 0 {
		return ErrTCNoLeading
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	check10 := ((odd*7-even)%10 + 10) % 10
	if check10 != d[9] {
		return ErrTCNoChecksum
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	if sum%10 != d[10] {
		return ErrTCNoChecksum
	}
	return nil
}

// String returns the raw digits
func (t TCNo) String() string {
	return t.value
}

// Masked hides all but the last 4 digits
func (t TCNo) Masked() string {
	if len(t.value) < 4 {
		return t.value
	}
	return strings.Repeat("*", len(t.value)-4) + t.value[len(t.value)-4:]
}

// IsZero reports whether the value is unset
func (t TCNo) IsZero() bool {
	return t.value == ""
}

// RestoreTCNo rehydrates a value that was validated before it was stored
func RestoreTCNo(raw string) TCNo {
	return TCNo{value: raw}
}
