package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point monetary amount counted in paise (hundredths of a
// rupee). Integer arithmetic keeps quotes exactly reproducible: summing
// per-day rates never accumulates float error, and the only rounding happens
// when a percentage is applied.
//
// JSON encodes Money as a decimal number with exactly two fractional digits
// (15930.00), matching the wire format of the rest of the API.
type Money int64

// NewMoney builds a Money from whole rupees and paise.
func NewMoney(rupees int64, paise int64) Money {
	return Money(rupees*100 + paise)
}

// Percent applies pct/100 to m, rounding half up to the nearest paisa.
// Used for the long-rental discount (10%) and GST (18%).
func (m Money) Percent(pct int64) Money {
	raw := int64(m) * pct
	// round half up on the /100 division; amounts are never negative here
	return Money((raw + 50) / 100)
}

// String formats the amount as a decimal with two fractional digits.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a bare decimal number, e.g. 15930.00.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a decimal number with up to two fractional digits.
// More than two fractional digits is rejected rather than silently rounded:
// amounts on the wire are exact by contract.
func (m *Money) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses a decimal string like "2000", "2000.5", or "2000.50"
// into paise. Only a single leading minus is accepted as a sign; embedded
// signs in either component are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("invalid money value %q", s)
	}

	// ParseUint admits no sign characters, so "2000.+1" and "20-0" fail here.
	w, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q", s)
	}

	var p uint64
	if frac != "" {
		p, err = strconv.ParseUint(frac, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("invalid money value %q", s)
		}
		if len(frac) == 1 {
			p *= 10
		}
	}

	v := Money(int64(w)*100 + int64(p))
	if neg {
		v = -v
	}
	return v, nil
}
