package cash

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/suprasig/errors"
)

const (
	// Ticker is the symbol of the native coin.
	Ticker = "SUPRA"
	// Decimals is the number of decimal places of the native coin. The
	// ledger counts coins in the smallest unit.
	Decimals = 8
	// FracUnit is the number of smallest units in one coin.
	FracUnit uint64 = 100000000
)

// Amount is a number of native coins in the smallest unit.
type Amount uint64

// ParseAmount accepts either a plain number of the smallest units, as the
// ledger counts them, or a human readable value with the ticker, for
// example "1.5 SUPRA".
func ParseAmount(h string) (Amount, error) {
	h = strings.TrimSpace(h)
	if n, err := strconv.ParseUint(h, 10, 64); err == nil {
		return Amount(n), nil
	}

	results := humanAmountFormatRx.FindStringSubmatch(h)
	if results == nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid amount format %q", h)
	}
	whole, err := strconv.ParseUint(results[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid whole value: %s", err)
	}
	var fract uint64
	if digits := strings.TrimPrefix(results[2], "."); digits != "" {
		if len(digits) > Decimals {
			return 0, errors.Wrapf(errors.ErrInput, "more than %d decimal places", Decimals)
		}
		digits += strings.Repeat("0", Decimals-len(digits))
		if fract, err = strconv.ParseUint(digits, 10, 64); err != nil {
			return 0, errors.Wrapf(errors.ErrInput, "invalid fractional value: %s", err)
		}
	}
	if whole > (^uint64(0)-fract)/FracUnit {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", h)
	}
	return Amount(whole*FracUnit + fract), nil
}

var humanAmountFormatRx = regexp.MustCompile(`^(\d+)(\.\d+)?\s*` + Ticker + `$`)

// String returns the human readable form, trailing zeros of the fractional
// part are dropped.
func (a Amount) String() string {
	whole := uint64(a) / FracUnit
	fract := uint64(a) % FracUnit
	if fract == 0 {
		return strconv.FormatUint(whole, 10) + " " + Ticker
	}
	digits := strconv.FormatUint(fract, 10)
	digits = strings.Repeat("0", Decimals-len(digits)) + digits
	return strconv.FormatUint(whole, 10) + "." + strings.TrimRight(digits, "0") + " " + Ticker
}

// Set updates this amount value to what is provided. This method implements
// flag.Value interface.
func (a *Amount) Set(raw string) error {
	val, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = val
	return nil
}
