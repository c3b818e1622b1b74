package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FractionPrecision is the number of fractional digits kept when a fraction
// has no terminating decimal expansion (e.g. 1/3).
const FractionPrecision = 28

// MalformedNumberError is returned when a fraction string cannot be decoded.
type MalformedNumberError struct {
	Text   string
	Reason string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number %q: %s", e.Text, e.Reason)
}

// ParseFraction converts a KMyMoney value such as "2385/100" into the exact
// decimal it represents.
//
// Examples:
//
//	ParseFraction("2385/100") // 23.85
//	ParseFraction("-54/1")    // -54
//	ParseFraction("0/1")      // 0
func ParseFraction(text string) (decimal.Decimal, error) {
	num, den, ok := strings.Cut(text, "/")
	if !ok || strings.Contains(den, "/") {
		return decimal.Zero, &MalformedNumberError{Text: text, Reason: "expected numerator/denominator"}
	}

	n, ok := new(big.Int).SetString(strings.TrimSpace(num), 10)
	if !ok {
		return decimal.Zero, &MalformedNumberError{Text: text, Reason: "invalid numerator"}
	}
	d, ok := new(big.Int).SetString(strings.TrimSpace(den), 10)
	if !ok {
		return decimal.Zero, &MalformedNumberError{Text: text, Reason: "invalid denominator"}
	}
	if d.Sign() == 0 {
		return decimal.Zero, &MalformedNumberError{Text: text, Reason: "zero denominator"}
	}

	r := new(big.Rat).SetFrac(n, d)
	places, exact := decimalPlaces(r.Denom())
	if !exact {
		places = FractionPrecision
	}

	return decimal.NewFromBigInt(r.Num(), 0).DivRound(decimal.NewFromBigInt(r.Denom(), 0), places), nil
}

// MustParseFraction is like ParseFraction but panics on error.
// Use only in tests or for literals known to be valid.
func MustParseFraction(text string) decimal.Decimal {
	d, err := ParseFraction(text)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatFraction renders d as a reduced "numerator/denominator" string,
// the inverse of ParseFraction for every terminating decimal.
func FormatFraction(d decimal.Decimal) string {
	coef := d.Coefficient()
	exp := d.Exponent()

	r := new(big.Rat)
	if exp >= 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		r.SetInt(new(big.Int).Mul(coef, scale))
	} else {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
		r.SetFrac(coef, scale)
	}

	return r.Num().String() + "/" + r.Denom().String()
}

// decimalPlaces reports how many fractional digits 1/den needs, and whether
// that expansion terminates at all. den must be positive and already reduced.
func decimalPlaces(den *big.Int) (int32, bool) {
	rest := new(big.Int).Set(den)
	two, five := big.NewInt(2), big.NewInt(5)
	mod := new(big.Int)

	var twos, fives int32
	for {
		q, m := new(big.Int).QuoRem(rest, two, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		twos++
	}
	for {
		q, m := new(big.Int).QuoRem(rest, five, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		fives++
	}

	if rest.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}
