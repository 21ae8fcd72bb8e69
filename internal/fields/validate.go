package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minBirthYear = 1900

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ValidDocument reports whether s holds a CPF whose two check digits match.
// Non-digits are ignored; anything other than 11 digits is invalid.
//
// Sequences of one repeated digit (000.000.000-00, 111.111.111-11, ...)
// satisfy both equations and are accepted.
func ValidDocument(s string) bool {
	d := Digits(s)
	if len(d) != documentDigits {
		return false
	}
	if checkDigit(d[:9]) != int(d[9]-'0') {
		return false
	}
	return checkDigit(d[:10]) == int(d[10]-'0')
}

// checkDigit weights the digits from len(digits)+1 down to 2.
func checkDigit(digits string) int {
	weight := len(digits) + 1
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	r := (sum * 10) % 11
	if r >= 10 {
		r = 0
	}
	return r
}

// ValidPostalCode reports whether s holds exactly 8 digits.
func ValidPostalCode(s string) bool {
	return len(Digits(s)) == postalCodeDigits
}

// ValidDate reports whether s is a real DD/MM/YYYY calendar date between
// 01/01/1900 and now, inclusive. The date is taken at midnight in now's
// location, so today is valid.
func ValidDate(s string, now time.Time) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	day, _ := strconv.Atoi(s[0:2])
	month, _ := strconv.Atoi(s[3:5])
	year, _ := strconv.Atoi(s[6:10])
	if year < minBirthYear {
		return false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return false
	}
	return !t.After(now)
}

// Required reports whether s has any non-whitespace content.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}
