package models

// Person holds the form data of the applicant or of one dependent.
// All fields start empty and hold the masked value as typed.
type Person struct {
	// FullName is the person's full name (free text).
	FullName string

	// BirthDate is the birth date masked as DD/MM/YYYY.
	BirthDate string

	// DocumentNumber is the CPF masked as 000.000.000-00.
	DocumentNumber string

	// PostalCode is the CEP masked as 00000-000.
	PostalCode string

	// HouseNumber is the residence number (free text).
	HouseNumber string
}

// Field names one of the Person form fields.
type Field string

const (
	FieldFullName       Field = "fullName"
	FieldBirthDate      Field = "birthDate"
	FieldDocumentNumber Field = "documentNumber"
	FieldPostalCode     Field = "postalCode"
	FieldHouseNumber    Field = "houseNumber"
)

// PersonFields lists the form fields in display order.
var PersonFields = []Field{
	FieldFullName,
	FieldBirthDate,
	FieldDocumentNumber,
	FieldPostalCode,
	FieldHouseNumber,
}

// ParseField validates a field name.
func ParseField(s string) (Field, bool) {
	for _, f := range PersonFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Get returns the value of field f.
func (p Person) Get(f Field) string {
	switch f {
	case FieldFullName:
		return p.FullName
	case FieldBirthDate:
		return p.BirthDate
	case FieldDocumentNumber:
		return p.DocumentNumber
	case FieldPostalCode:
		return p.PostalCode
	case FieldHouseNumber:
		return p.HouseNumber
	}
	return ""
}

// With returns a copy of p with field f set to v.
// Unknown fields leave p unchanged.
func (p Person) With(f Field, v string) Person {
	switch f {
	case FieldFullName:
		p.FullName = v
	case FieldBirthDate:
		p.BirthDate = v
	case FieldDocumentNumber:
		p.DocumentNumber = v
	case FieldPostalCode:
		p.PostalCode = v
	case FieldHouseNumber:
		p.HouseNumber = v
	}
	return p
}
