// Package fields implements the masking, sanitizing and validation of the
// sign-up form fields: CPF, CEP, birth date and the free-text fields.
//
// Every function here is pure. Date validation takes the reference time as
// an argument instead of reading the clock.
package fields

import (
	"strings"

	"github.com/primelife/signup/internal/models"
)

const (
	documentDigits   = 11
	postalCodeDigits = 8
	dateDigits       = 8
)

// separator inserts sep before the digit at index pos.
type separator struct {
	pos int
	sep byte
}

var (
	documentMask   = []separator{{3, '.'}, {6, '.'}, {9, '-'}}
	postalCodeMask = []separator{{5, '-'}}
	dateMask       = []separator{{2, '/'}, {4, '/'}}
)

// Digits returns the ASCII digits of s in order.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatDocument masks a CPF as 000.000.000-00.
func FormatDocument(raw string) string {
	return mask(raw, documentDigits, documentMask)
}

// FormatPostalCode masks a CEP as 00000-000.
func FormatPostalCode(raw string) string {
	return mask(raw, postalCodeDigits, postalCodeMask)
}

// FormatDate masks a date as DD/MM/YYYY.
func FormatDate(raw string) string {
	return mask(raw, dateDigits, dateMask)
}

// FormatField applies the formatter of field f to raw input.
// Free-text fields are sanitized instead of masked.
func FormatField(f models.Field, raw string) string {
	switch f {
	case models.FieldDocumentNumber:
		return FormatDocument(raw)
	case models.FieldPostalCode:
		return FormatPostalCode(raw)
	case models.FieldBirthDate:
		return FormatDate(raw)
	default:
		return SanitizeText(raw)
	}
}

// mask keeps at most limit digits of raw and inserts each separator only when
// a digit follows it, so partial input yields the longest valid partial mask.
func mask(raw string, limit int, seps []separator) string {
	d := Digits(raw)
	if len(d) > limit {
		d = d[:limit]
	}

	var b strings.Builder
	b.Grow(len(d) + len(seps))
	next := 0
	for i := 0; i < len(d); i++ {
		if next < len(seps) && seps[next].pos == i {
			b.WriteByte(seps[next].sep)
			next++
		}
		b.WriteByte(d[i])
	}
	return b.String()
}
