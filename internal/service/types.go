package service

import (
	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/wizard"
)

// Empty is the request of calls without arguments.
type Empty struct{}

// PlanView is a catalog plan as shown on the plan cards.
type PlanView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	MonthlyLabel   string   `json:"monthlyLabel"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
	DependentQuota int      `json:"dependentQuota"`
}

// PersonView is the form data of one person.
type PersonView struct {
	FullName       string `json:"fullName"`
	BirthDate      string `json:"birthDate"`
	DocumentNumber string `json:"documentNumber"`
	PostalCode     string `json:"postalCode"`
	HouseNumber    string `json:"houseNumber"`
}

// StateView is everything a client needs to render the current page.
type StateView struct {
	Page            string            `json:"page"`
	Plan            *PlanView         `json:"plan"`
	Applicant       PersonView        `json:"applicant"`
	Dependents      []PersonView      `json:"dependents"`
	Errors          map[string]string `json:"errors"`
	CanAddDependent bool              `json:"canAddDependent"`
	DependentQuota  int               `json:"dependentQuota"`
}

type ListPlansResponse struct {
	Plans []PlanView `json:"plans"`
}

type StateResponse struct {
	State StateView `json:"state"`
}

type SelectPlanRequest struct {
	PlanID string `json:"planId"`
}

// UpdateFieldRequest sets one field. Field is an error key such as
// "applicant.documentNumber" or "dependent[1].fullName".
type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type RemoveDependentRequest struct {
	Index int `json:"index"`
}

type SignRequest struct {
	Signature string `json:"signature"`
}

type SignResponse struct {
	RedirectURL string    `json:"redirectUrl"`
	State       StateView `json:"state"`
}

type ClauseView struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type ContractView struct {
	Plan         PlanView     `json:"plan"`
	MonthlyLabel string       `json:"monthlyLabel"`
	Applicant    PersonView   `json:"applicant"`
	Dependents   []PersonView `json:"dependents"`
	Clauses      []ClauseView `json:"clauses"`
}

type ReviewResponse struct {
	Contract ContractView `json:"contract"`
}

func planView(p models.Plan) PlanView {
	return PlanView{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		MonthlyLabel:   p.MonthlyLabel(),
		Description:    p.Description,
		Features:       append([]string(nil), p.Features...),
		DependentQuota: p.DependentQuota,
	}
}

func personView(p models.Person) PersonView {
	return PersonView{
		FullName:       p.FullName,
		BirthDate:      p.BirthDate,
		DocumentNumber: p.DocumentNumber,
		PostalCode:     p.PostalCode,
		HouseNumber:    p.HouseNumber,
	}
}

func peopleView(people []models.Person) []PersonView {
	out := make([]PersonView, 0, len(people))
	for _, p := range people {
		out = append(out, personView(p))
	}
	return out
}

func stateView(s models.State, errs wizard.Errors) StateView {
	v := StateView{
		Page:            string(s.CurrentPage),
		Applicant:       personView(s.Applicant),
		Dependents:      peopleView(s.Dependents),
		Errors:          map[string]string{},
		CanAddDependent: s.CanAddDependent(),
		DependentQuota:  s.DependentQuota(),
	}
	if s.SelectedPlan != nil {
		pv := planView(*s.SelectedPlan)
		v.Plan = &pv
	}
	for k, msg := range errs {
		v.Errors[k] = msg
	}
	return v
}

func contractView(c wizard.Contract) ContractView {
	v := ContractView{
		Plan:         planView(c.Plan),
		MonthlyLabel: c.MonthlyLabel,
		Applicant:    personView(c.Applicant),
		Dependents:   peopleView(c.Dependents),
		Clauses:      make([]ClauseView, 0, len(c.Clauses)),
	}
	for _, cl := range c.Clauses {
		v.Clauses = append(v.Clauses, ClauseView{Number: cl.Number, Title: cl.Title, Body: cl.Body})
	}
	return v
}
