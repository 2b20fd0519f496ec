package identity

import (
	"regexp"
	"unicode/utf8"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
)

const (
	minAccountNumberLen = 9
	maxAccountNumberLen = 18
)

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Validate checks the registration payload and returns every violated rule.
func Validate(in Credentials) []apperror.Violation {
	var violations []apperror.Violation
	if n := utf8.RuneCountInString(in.AccountNumber); n < minAccountNumberLen || n > maxAccountNumberLen {
		violations = append(violations, apperror.Violation{
			Field:   "accountNumber",
			Message: "Account number must be between 9 and 18 digits.",
		})
	}
	if !ValidIFSC(in.IFSC) {
		violations = append(violations, apperror.Violation{
			Field:   "ifsc",
			Message: "Invalid IFSC code format.",
		})
	}
	return violations
}

// ValidIFSC reports whether code has the four-letter, zero, six-character shape.
func ValidIFSC(code string) bool {
	return ifscPattern.MatchString(code)
}
