package ideal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders eurocents as the wire amount: 1050 -> "10.50".
func FormatAmount(cents int64) (string, error) {
	if cents < 0 {
		return "", fmt.Errorf("amount must not be negative, got %d", cents)
	}
	return decimal.New(cents, -2).StringFixed(2), nil
}

// ParseAmount converts a wire amount back to eurocents. A missing fraction
// counts as zero cents; a single fractional digit counts as tenths.
func ParseAmount(s string) (int64, error) {
	coins, frac, found := strings.Cut(strings.TrimSpace(s), ".")
	if !digits(coins) || strings.Trim(frac, "0123456789") != "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	units, err := strconv.ParseInt(coins, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if !found || frac == "" {
		return units * 100, nil
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: more than two decimals", s)
	}
	if len(frac) == 1 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return units*100 + cents, nil
}

// digits reports whether s is a non-empty run of ASCII digits.
func digits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}
