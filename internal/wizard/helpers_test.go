package wizard

import (
	"testing"
	"time"

	"github.com/primelife/signup/internal/models"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validPerson(name string) models.Person {
	return models.Person{
		FullName:       name,
		BirthDate:      "10/05/1985",
		DocumentNumber: "111.444.777-35",
		PostalCode:     "01310-100",
		HouseNumber:    "100",
	}
}

// formState returns a state on the form page for planID with the given
// number of empty dependents.
func formState(t *testing.T, planID string, dependents int) models.State {
	t.Helper()
	plan, ok := models.PlanByID(planID)
	if !ok {
		t.Fatalf("plan %q not in catalog", planID)
	}
	s := models.State{CurrentPage: models.PageForm, SelectedPlan: &plan}
	for range dependents {
		s.Dependents = append(s.Dependents, models.Person{})
	}
	return s
}

// mustApply applies ev and fails the test on error.
func mustApply(t *testing.T, s models.State, errs Errors, ev Event) Outcome {
	t.Helper()
	out, err := Apply(s, errs, ev, refNow)
	if err != nil {
		t.Fatalf("Apply(%s) on %s failed: %v", ev.Name(), s.CurrentPage, err)
	}
	return out
}
