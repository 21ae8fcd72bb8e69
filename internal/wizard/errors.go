package wizard

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strconv"

	"github.com/primelife/signup/internal/models"
)

// Sentinel errors returned by Apply and Session.Dispatch.
// Callers match them with errors.Is; returned errors carry context.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownPlan       = errors.New("unknown plan")
	ErrDependentIndex    = errors.New("dependent index out of range")
	ErrUnknownField      = errors.New("unknown field")
	ErrMissingSignature  = errors.New("missing signature")
	ErrNoPlan            = errors.New("no plan selected")
)

// SignaturePrompt is shown when the contract is signed without a signature.
const SignaturePrompt = "Por favor, assine o contrato antes de continuar"

// Target identifies whose form a field belongs to.
type Target string

const (
	TargetApplicant Target = "applicant"
	TargetDependent Target = "dependent"
)

// FieldRef addresses one form field: the applicant's, or the Index-th dependent's.
type FieldRef struct {
	Target Target
	Index  int
	Field  models.Field
}

// ApplicantField addresses a field of the applicant.
func ApplicantField(f models.Field) FieldRef {
	return FieldRef{Target: TargetApplicant, Field: f}
}

// DependentField addresses a field of the i-th dependent.
func DependentField(i int, f models.Field) FieldRef {
	return FieldRef{Target: TargetDependent, Index: i, Field: f}
}

// Key renders the ref as a validation error key,
// e.g. "applicant.fullName" or "dependent[1].documentNumber".
func (r FieldRef) Key() string {
	if r.Target == TargetDependent {
		return fmt.Sprintf("dependent[%d].%s", r.Index, r.Field)
	}
	return fmt.Sprintf("applicant.%s", r.Field)
}

func (r FieldRef) String() string { return r.Key() }

var keyPattern = regexp.MustCompile(`^(?:applicant|dependent\[(\d+)\])\.([A-Za-z]+)$`)

// ParseFieldRef parses a key produced by FieldRef.Key.
func ParseFieldRef(key string) (FieldRef, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return FieldRef{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	f, ok := models.ParseField(m[2])
	if !ok {
		return FieldRef{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if m[1] == "" {
		return ApplicantField(f), nil
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return FieldRef{}, fmt.Errorf("%w: %q", ErrDependentIndex, key)
	}
	return DependentField(i, f), nil
}

// Errors maps field keys to pt-BR validation messages.
// A nil Errors is empty and safe to read.
type Errors map[string]string

// Get returns the message for ref, or "".
func (e Errors) Get(ref FieldRef) string {
	return e[ref.Key()]
}

// Clone returns a copy of e; nil and empty maps clone to nil.
func (e Errors) Clone() Errors {
	if len(e) == 0 {
		return nil
	}
	return maps.Clone(e)
}

// WithoutDependent returns the errors left after the dependent at index i is
// removed: keys for i are dropped, keys for higher indices shift down by one,
// applicant keys are kept. e is not modified.
func (e Errors) WithoutDependent(i int) Errors {
	if len(e) == 0 {
		return nil
	}
	out := make(Errors, len(e))
	for key, msg := range e {
		ref, err := ParseFieldRef(key)
		if err != nil {
			// Not ours to interpret; keep it.
			out[key] = msg
			continue
		}
		if ref.Target == TargetDependent {
			switch {
			case ref.Index == i:
				continue
			case ref.Index > i:
				ref.Index--
			}
		}
		out[ref.Key()] = msg
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
