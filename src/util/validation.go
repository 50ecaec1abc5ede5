package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateAccountName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 1 && len(name) <= 64
}

// ValidateAmount reports whether a monetary amount is strictly positive and fits a
// NUMERIC(15,2) column: at most two decimal places.
func ValidateAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}
