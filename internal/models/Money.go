package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"cemetery_api/internal/apperrors"
)

// Monetary columns are numeric(10,2).
const (
	moneyDigits = 10
	moneyPlaces = 2
)

// FormatMoney renders d as a fixed-point string with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}

// checkMoney records precision violations of a numeric(10,2) value and its
// lower bound. Precision is read from the coefficient and exponent only, so
// values like 1e20000000 never reach decimal arithmetic.
func checkMoney(v *apperrors.ValidationError, field string, d, min decimal.Decimal) {
	places, intDigits := moneyShape(d)
	fits := true
	if places > moneyPlaces {
		v.Add(field, "Ensure that there are no more than 2 decimal places.")
		fits = false
	}
	if intDigits > moneyDigits-moneyPlaces {
		v.Add(field, "Ensure that there are no more than 10 digits in total.")
		fits = false
	}
	below := d.Sign() < 0 && min.Sign() >= 0
	if fits {
		below = d.LessThan(min)
	}
	if below {
		v.Add(field, "Ensure this value is greater than or equal to "+min.String()+".")
	}
}

// moneyShape returns the number of significant decimal places of d and the
// number of digits before the decimal point.
func moneyShape(d decimal.Decimal) (places, intDigits int) {
	if d.IsZero() {
		return 0, 0
	}
	coef := strings.TrimPrefix(d.Coefficient().String(), "-")
	trimmed := strings.TrimRight(coef, "0")
	exp := int(d.Exponent()) + len(coef) - len(trimmed)
	if exp < 0 {
		places = -exp
	}
	return places, len(trimmed) + exp
}
