package wizard

import (
	"time"

	"github.com/primelife/signup/internal/fields"
	"github.com/primelife/signup/internal/models"
)

// Validation messages shown next to the offending field.
const (
	MsgNameRequired        = "Nome completo é obrigatório"
	MsgBirthDateRequired   = "Data de nascimento é obrigatória"
	MsgBirthDateInvalid    = "Data inválida (use DD/MM/AAAA)"
	MsgDocumentRequired    = "CPF é obrigatório"
	MsgDocumentInvalid     = "CPF inválido"
	MsgPostalCodeRequired  = "CEP é obrigatório"
	MsgPostalCodeInvalid   = "CEP inválido (8 dígitos)"
	MsgHouseNumberRequired = "Número da residência é obrigatório"
)

// ValidateForm checks the applicant and every dependent and reports every
// invalid field. It returns nil when the form is valid.
func ValidateForm(s models.State, now time.Time) Errors {
	errs := Errors{}
	validatePerson(errs, s.Applicant, ApplicantField, now)
	for i, d := range s.Dependents {
		validatePerson(errs, d, func(f models.Field) FieldRef { return DependentField(i, f) }, now)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validatePerson(errs Errors, p models.Person, ref func(models.Field) FieldRef, now time.Time) {
	if !fields.Required(p.FullName) {
		errs[ref(models.FieldFullName).Key()] = MsgNameRequired
	}

	switch {
	case p.BirthDate == "":
		errs[ref(models.FieldBirthDate).Key()] = MsgBirthDateRequired
	case !fields.ValidDate(p.BirthDate, now):
		errs[ref(models.FieldBirthDate).Key()] = MsgBirthDateInvalid
	}

	switch {
	case p.DocumentNumber == "":
		errs[ref(models.FieldDocumentNumber).Key()] = MsgDocumentRequired
	case !fields.ValidDocument(p.DocumentNumber):
		errs[ref(models.FieldDocumentNumber).Key()] = MsgDocumentInvalid
	}

	switch {
	case p.PostalCode == "":
		errs[ref(models.FieldPostalCode).Key()] = MsgPostalCodeRequired
	case !fields.ValidPostalCode(p.PostalCode):
		errs[ref(models.FieldPostalCode).Key()] = MsgPostalCodeInvalid
	}

	if !fields.Required(p.HouseNumber) {
		errs[ref(models.FieldHouseNumber).Key()] = MsgHouseNumberRequired
	}
}
