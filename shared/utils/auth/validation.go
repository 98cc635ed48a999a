package auth

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex     = regexp.MustCompile(`^(\+39)?\s?3[0-9]{8,9}$`)
	codiceSDIRegex = regexp.MustCompile(`^[A-Z0-9]{7}$`)
	partitaRegex   = regexp.MustCompile(`^[0-9]{11}$`)
	fiscaleRegex   = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)
)

// Check character tables for the codice fiscale algorithm.
var fiscaleOddValues = map[rune]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(NormalizeEmail(email))
}

// ValidatePassword enforces the password policy: at least 8 characters
// with one uppercase letter, one lowercase letter and one digit.
// Returns an Italian error message, empty when valid.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "La password deve contenere almeno 8 caratteri"
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return "La password deve contenere almeno una lettera maiuscola"
	}
	if !hasLower {
		return "La password deve contenere almeno una lettera minuscola"
	}
	if !hasDigit {
		return "La password deve contenere almeno un numero"
	}
	return ""
}

// ValidateItalianPhone checks an Italian mobile number, with or without
// the +39 prefix.
func ValidateItalianPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// ValidateCodiceFiscale verifies format and check character of an
// Italian codice fiscale.
func ValidateCodiceFiscale(cf string) bool {
	cf = strings.ToUpper(strings.TrimSpace(cf))
	if !fiscaleRegex.MatchString(cf) {
		return false
	}

	sum := 0
	for i, r := range cf[:15] {
		if (i+1)%2 == 1 {
			sum += fiscaleOddValues[r]
		} else {
			if r >= '0' && r <= '9' {
				sum += int(r - '0')
			} else {
				sum += int(r - 'A')
			}
		}
	}
	check := rune('A' + sum%26)
	return rune(cf[15]) == check
}

// ValidatePartitaIVA verifies format and check digit of an Italian
// partita IVA.
func ValidatePartitaIVA(piva string) bool {
	piva = strings.TrimSpace(piva)
	if !partitaRegex.MatchString(piva) {
		return false
	}

	sum := 0
	for i := 0; i < 10; i++ {
		d := int(piva[i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return int(piva[10]-'0') == check
}

// ValidateCodiceSDI checks the 7 character electronic invoicing code.
func ValidateCodiceSDI(sdi string) bool {
	return codiceSDIRegex.MatchString(strings.ToUpper(strings.TrimSpace(sdi)))
}
