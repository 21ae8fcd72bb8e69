package wizard

import (
	"errors"
	"testing"

	"github.com/primelife/signup/internal/models"
)

func TestReview(t *testing.T) {
	s := formState(t, "intermediario", 0)
	s.CurrentPage = models.PageContract
	s.Applicant = validPerson("Maria Silva")
	s.Dependents = []models.Person{validPerson("Ana")}

	c, err := Review(s)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if c.Plan.Name != "Intermediário" {
		t.Errorf("Plan.Name = %q, want Intermediário", c.Plan.Name)
	}
	if c.MonthlyLabel != "R$ 69,90/mês" {
		t.Errorf("MonthlyLabel = %q, want R$ 69,90/mês", c.MonthlyLabel)
	}
	if c.Applicant.FullName != "Maria Silva" || len(c.Dependents) != 1 {
		t.Errorf("people = %+v / %+v", c.Applicant, c.Dependents)
	}
	if len(c.Clauses) != 6 {
		t.Fatalf("clauses = %d, want 6", len(c.Clauses))
	}
	for i, cl := range c.Clauses {
		if cl.Number != i+1 || cl.Title == "" || cl.Body == "" {
			t.Errorf("clause %d = %+v", i, cl)
		}
	}

	c.Dependents[0].FullName = "changed"
	c.Clauses[0].Title = "changed"
	if s.Dependents[0].FullName != "Ana" {
		t.Error("Review shares dependents with the state")
	}
	if again, _ := Review(s); again.Clauses[0].Title != "OBJETO DO CONTRATO" {
		t.Error("Review shares clauses between calls")
	}
}

func TestReviewWithoutPlan(t *testing.T) {
	if _, err := Review(models.DefaultState()); !errors.Is(err, ErrNoPlan) {
		t.Errorf("error = %v, want ErrNoPlan", err)
	}
}
