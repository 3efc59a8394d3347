// Package moneypkg provides exact decimal money amounts with two fractional digits.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformed indicates that the input is not a decimal number.
	ErrMalformed = errors.New("amount is not a valid decimal number")
	// ErrPrecision indicates more than two fractional digits.
	ErrPrecision = errors.New("amount has more than two decimal places")
)

// Amount is an exact decimal money amount. The zero value is 0.00.
type Amount struct {
	d decimal.Decimal
}

// Parse converts external input into an Amount.
//
// It fails if the input is not a decimal number or is not representable
// with two fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrMalformed
	}

	if d.Exponent() < -2 {
		return Amount{}, ErrPrecision
	}

	return Amount{d: d}, nil
}

// MustParse is Parse that panics on error. It is intended for constants in tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.d.LessThan(b.d)
}

// Equal reports whether a and b represent the same amount.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(2)
}
