package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestSnapshotState(t *testing.T) {
	premium, _ := PlanByID("premium")
	basico, _ := PlanByID("basico")

	tests := []struct {
		name string
		snap Snapshot
		want State
	}{
		{
			name: "empty snapshot restores default state",
			snap: Snapshot{},
			want: DefaultState(),
		},
		{
			name: "unknown page falls back to home",
			snap: Snapshot{CurrentPage: "checkout"},
			want: DefaultState(),
		},
		{
			name: "plans page without plan is kept",
			snap: Snapshot{CurrentPage: "plans"},
			want: State{CurrentPage: PagePlans},
		},
		{
			name: "unknown plan id on form page falls back to plans",
			snap: Snapshot{
				CurrentPage:    "form",
				SelectedPlanID: strPtr("platinum"),
				FormData: &FormData{
					Titular:     PersonRecord{Nome: "Ana"},
					Dependentes: []PersonRecord{{Nome: "Bia"}},
				},
			},
			want: State{CurrentPage: PagePlans, Applicant: Person{FullName: "Ana"}},
		},
		{
			name: "known plan restores people",
			snap: Snapshot{
				CurrentPage:    "contract",
				SelectedPlanID: strPtr("premium"),
				FormData: &FormData{
					Titular: PersonRecord{
						Nome:           "Ana Souza",
						DataNascimento: "01/02/1990",
						Cpf:            "111.444.777-35",
						Cep:            "01310-100",
						Numero:         "42",
					},
					Dependentes: []PersonRecord{{Nome: "Bia"}, {Nome: "Caio"}},
				},
			},
			want: State{
				CurrentPage:  PageContract,
				SelectedPlan: &premium,
				Applicant: Person{
					FullName:       "Ana Souza",
					BirthDate:      "01/02/1990",
					DocumentNumber: "111.444.777-35",
					PostalCode:     "01310-100",
					HouseNumber:    "42",
				},
				Dependents: []Person{{FullName: "Bia"}, {FullName: "Caio"}},
			},
		},
		{
			name: "dependents beyond quota are truncated",
			snap: Snapshot{
				CurrentPage:    "form",
				SelectedPlanID: strPtr("basico"),
				FormData: &FormData{
					Dependentes: []PersonRecord{{Nome: "Bia"}},
				},
			},
			want: State{CurrentPage: PageForm, SelectedPlan: &basico},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.snap.State()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("State() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	plan, _ := PlanByID("intermediario")
	s := State{
		CurrentPage:  PageForm,
		SelectedPlan: &plan,
		Applicant:    Person{FullName: "Ana", DocumentNumber: "111.444.777-35"},
		Dependents:   []Person{{FullName: "Bia"}},
	}

	snap := NewSnapshot(s)

	if snap.CurrentPage != "form" {
		t.Errorf("CurrentPage = %q, want form", snap.CurrentPage)
	}
	if snap.SelectedPlanID == nil || *snap.SelectedPlanID != "intermediario" {
		t.Errorf("SelectedPlanID = %v, want intermediario", snap.SelectedPlanID)
	}
	if snap.FormData.Titular.Cpf != "111.444.777-35" {
		t.Errorf("Titular.Cpf = %q", snap.FormData.Titular.Cpf)
	}
	if len(snap.FormData.Dependentes) != 1 || snap.FormData.Dependentes[0].Nome != "Bia" {
		t.Errorf("Dependentes = %+v", snap.FormData.Dependentes)
	}

	if diff := cmp.Diff(s, snap.State()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSnapshotWithoutPlan(t *testing.T) {
	snap := NewSnapshot(DefaultState())
	if snap.SelectedPlanID != nil {
		t.Errorf("SelectedPlanID = %v, want nil", *snap.SelectedPlanID)
	}
	if snap.FormData == nil || snap.FormData.Dependentes == nil {
		t.Fatal("FormData.Dependentes must be an empty list, not null")
	}
}

func TestPlanCatalog(t *testing.T) {
	plans := Plans()
	if len(plans) != 3 {
		t.Fatalf("catalog has %d plans, want 3", len(plans))
	}

	quotas := map[string]int{"basico": 0, "intermediario": 3, "premium": 4}
	for id, quota := range quotas {
		p, ok := PlanByID(id)
		if !ok {
			t.Fatalf("plan %q not found", id)
		}
		if p.DependentQuota != quota {
			t.Errorf("%s quota = %d, want %d", id, p.DependentQuota, quota)
		}
	}

	if _, ok := PlanByID("platinum"); ok {
		t.Error("unknown plan resolved")
	}

	// Callers must not be able to mutate the catalog.
	plans[0].Features[0] = "changed"
	again, _ := PlanByID(plans[0].ID)
	if again.Features[0] == "changed" {
		t.Error("catalog features were mutated through Plans()")
	}
}

func TestStateClone(t *testing.T) {
	plan, _ := PlanByID("premium")
	s := State{CurrentPage: PageForm, SelectedPlan: &plan, Dependents: []Person{{FullName: "Bia"}}}

	c := s.Clone()
	c.Dependents[0].FullName = "Caio"
	c.SelectedPlan.Name = "Outro"

	if s.Dependents[0].FullName != "Bia" {
		t.Error("Clone shares the dependents slice")
	}
	if s.SelectedPlan.Name != "Premium" {
		t.Error("Clone shares the plan")
	}
}
