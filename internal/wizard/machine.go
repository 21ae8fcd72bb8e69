package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/primelife/signup/internal/fields"
	"github.com/primelife/signup/internal/models"
)

// Outcome is the result of applying an event.
type Outcome struct {
	// State is the state after the event.
	State models.State

	// Errors are the validation errors to show after the event.
	Errors Errors

	// Effects are the side effects to run, in order.
	Effects []Effect
}

// Changed reports whether the outcome asks for the state to be persisted.
func (o Outcome) Changed() bool {
	for _, e := range o.Effects {
		if _, ok := e.(Persist); ok {
			return true
		}
	}
	return false
}

// Apply computes the result of ev on state s with the current errors.
// It is pure: s and errs are never modified, and now is the reference
// time for date validation.
//
// The page graph is
//
//	home --Start--> plans --SelectPlan--> form --Submit--> contract --Sign--> checkout
//
// with Back from plans, form and contract. Form edits are only accepted on
// the form page. Anything else fails with ErrInvalidTransition.
func Apply(s models.State, errs Errors, ev Event, now time.Time) (Outcome, error) {
	switch ev := ev.(type) {
	case Start:
		if s.CurrentPage != models.PageHome {
			return Outcome{}, invalid(s, ev)
		}
		return persist(withPage(s, models.PagePlans), errs), nil

	case SelectPlan:
		if s.CurrentPage != models.PagePlans {
			return Outcome{}, invalid(s, ev)
		}
		plan, ok := models.PlanByID(ev.PlanID)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownPlan, ev.PlanID)
		}
		next := models.State{
			CurrentPage:  models.PageForm,
			SelectedPlan: &plan,
		}
		// The people were reset, so earlier messages no longer apply.
		return persist(next, nil), nil

	case Back:
		prev, ok := previousPage[s.CurrentPage]
		if !ok {
			return Outcome{}, invalid(s, ev)
		}
		return persist(withPage(s, prev), errs), nil

	case UpdateField:
		if s.CurrentPage != models.PageForm {
			return Outcome{}, invalid(s, ev)
		}
		next, err := updateField(s, ev.FieldRef, ev.Value)
		if err != nil {
			return Outcome{}, err
		}
		return persist(next, errs), nil

	case AddDependent:
		if s.CurrentPage != models.PageForm {
			return Outcome{}, invalid(s, ev)
		}
		next, added := addDependent(s)
		if !added {
			return Outcome{State: s.Clone(), Errors: errs.Clone()}, nil
		}
		return persist(next, errs), nil

	case RemoveDependent:
		if s.CurrentPage != models.PageForm {
			return Outcome{}, invalid(s, ev)
		}
		next, err := removeDependent(s, ev.Index)
		if err != nil {
			return Outcome{}, err
		}
		return persist(next, errs.WithoutDependent(ev.Index)), nil

	case Submit:
		if s.CurrentPage != models.PageForm {
			return Outcome{}, invalid(s, ev)
		}
		if found := ValidateForm(s, now); len(found) > 0 {
			return Outcome{State: s.Clone(), Errors: found}, nil
		}
		return persist(withPage(s, models.PageContract), nil), nil

	case Sign:
		if s.CurrentPage != models.PageContract {
			return Outcome{}, invalid(s, ev)
		}
		if s.SelectedPlan == nil {
			return Outcome{}, ErrNoPlan
		}
		if strings.TrimSpace(ev.Signature) == "" {
			return Outcome{}, ErrMissingSignature
		}
		signed := SignedContract{
			Plan:       *s.SelectedPlan,
			Applicant:  s.Applicant,
			Dependents: s.Clone().Dependents,
			Signature:  ev.Signature,
			SignedAt:   now,
		}
		return Outcome{
			State:   models.DefaultState(),
			Effects: []Effect{Clear{}, Navigate{Contract: signed}},
		}, nil
	}

	return Outcome{}, fmt.Errorf("%w: unsupported event %T", ErrInvalidTransition, ev)
}

var previousPage = map[models.Page]models.Page{
	models.PageForm:     models.PagePlans,
	models.PageContract: models.PageForm,
}

func invalid(s models.State, ev Event) error {
	return fmt.Errorf("%w: %s on page %s", ErrInvalidTransition, ev.Name(), s.CurrentPage)
}

func withPage(s models.State, p models.Page) models.State {
	next := s.Clone()
	next.CurrentPage = p
	return next
}

func persist(s models.State, errs Errors) Outcome {
	return Outcome{State: s, Errors: errs.Clone(), Effects: []Effect{Persist{}}}
}

func updateField(s models.State, ref FieldRef, value string) (models.State, error) {
	if _, ok := models.ParseField(string(ref.Field)); !ok {
		return models.State{}, fmt.Errorf("%w: %q", ErrUnknownField, ref.Field)
	}
	value = fields.FormatField(ref.Field, value)

	next := s.Clone()
	switch ref.Target {
	case TargetApplicant:
		next.Applicant = next.Applicant.With(ref.Field, value)
	case TargetDependent:
		if ref.Index < 0 || ref.Index >= len(next.Dependents) {
			return models.State{}, fmt.Errorf("%w: %d of %d", ErrDependentIndex, ref.Index, len(next.Dependents))
		}
		next.Dependents[ref.Index] = next.Dependents[ref.Index].With(ref.Field, value)
	default:
		return models.State{}, fmt.Errorf("%w: target %q", ErrUnknownField, ref.Target)
	}
	return next, nil
}
