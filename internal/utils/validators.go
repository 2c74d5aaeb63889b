package utils

import (
	"net/mail"
	"unicode"
)

// IsValidEmail reports whether the string parses as a bare RFC 5322
// address. Display names are rejected; the form field holds an address,
// nothing else.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsComplexPassword enforces the clinician account password policy: at
// least 8 characters including upper case, lower case, a digit, and a
// symbol.
func IsComplexPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
