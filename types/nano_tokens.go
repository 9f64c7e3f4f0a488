package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NanosPerToken is the number of indivisible nano units in one whole token.
const NanosPerToken = 1_000_000_000

var (
	ErrTokenOverflow  = errors.New("nano token arithmetic overflow")
	ErrTokenUnderflow = errors.New("nano token arithmetic underflow")
	// ErrPrecisionLoss is returned when a token string carries more than
	// nine fractional digits and cannot be represented in nanos.
	ErrPrecisionLoss   = errors.New("token amount exceeds nano precision")
	ErrInvalidTokens   = errors.New("invalid token amount")
	ErrExcessiveTokens = errors.New("token amount exceeds maximum supply range")
)

// NanoTokens is an amount of value in nano token units. All ledger
// arithmetic runs on this type; fractional tokens never appear outside
// of display strings.
type NanoTokens uint64

// AsNano returns the raw nano unit count.
func (t NanoTokens) AsNano() uint64 {
	return uint64(t)
}

// CheckedAdd returns t+other, or ErrTokenOverflow when the sum does not
// fit in 64 bits.
func (t NanoTokens) CheckedAdd(other NanoTokens) (NanoTokens, error) {
	sum := t + other
	if sum < t {
		return 0, ErrTokenOverflow
	}
	return sum, nil
}

// CheckedSub returns t-other, or ErrTokenUnderflow when other exceeds t.
func (t NanoTokens) CheckedSub(other NanoTokens) (NanoTokens, error) {
	if other > t {
		return 0, ErrTokenUnderflow
	}
	return t - other, nil
}

// String renders the amount as whole tokens with a fixed nine digit
// fraction, e.g. 1500000000 nanos -> "1.500000000".
func (t NanoTokens) String() string {
	return fmt.Sprintf("%d.%09d", uint64(t)/NanosPerToken, uint64(t)%NanosPerToken)
}

// ParseNanoTokens parses a decimal token string ("4.25", "0.000000001",
// "10") into nanos. More than nine fractional digits is rejected rather
// than rounded.
func ParseNanoTokens(s string) (NanoTokens, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTokens, s)
	}
	units, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTokens, s)
	}
	var nanos uint64
	if hasFrac {
		if frac == "" || len(frac) > 9 {
			if len(frac) > 9 {
				return 0, fmt.Errorf("%w: %q", ErrPrecisionLoss, s)
			}
			return 0, fmt.Errorf("%w: %q", ErrInvalidTokens, s)
		}
		nanos, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTokens, s)
		}
		for i := len(frac); i < 9; i++ {
			nanos *= 10
		}
	}
	if units > (1<<64-1)/NanosPerToken {
		return 0, fmt.Errorf("%w: %q", ErrExcessiveTokens, s)
	}
	total, err := NanoTokens(units * NanosPerToken).CheckedAdd(NanoTokens(nanos))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrExcessiveTokens, s)
	}
	return total, nil
}
