package models

// Snapshot is the persisted projection of State.
// The plan is stored by id only and re-resolved on restore.
type Snapshot struct {
	CurrentPage    string    `json:"currentPage"`
	SelectedPlanID *string   `json:"selectedPlanId"`
	FormData       *FormData `json:"formData"`
}

// FormData holds the people of a snapshot.
type FormData struct {
	Titular     PersonRecord   `json:"titular"`
	Dependentes []PersonRecord `json:"dependentes"`
}

// PersonRecord is the snapshot encoding of a Person.
type PersonRecord struct {
	Nome           string `json:"nome"`
	DataNascimento string `json:"dataNascimento"`
	Cpf            string `json:"cpf"`
	Cep            string `json:"cep"`
	Numero         string `json:"numero"`
}

// NewSnapshot projects s into its persisted form.
func NewSnapshot(s State) Snapshot {
	snap := Snapshot{
		CurrentPage: string(s.CurrentPage),
		FormData: &FormData{
			Titular:     recordOf(s.Applicant),
			Dependentes: make([]PersonRecord, 0, len(s.Dependents)),
		},
	}
	if s.SelectedPlan != nil {
		id := s.SelectedPlan.ID
		snap.SelectedPlanID = &id
	}
	for _, d := range s.Dependents {
		snap.FormData.Dependentes = append(snap.FormData.Dependentes, recordOf(d))
	}
	return snap
}

// State restores the wizard state from the snapshot.
//
// Restoring never fails; inconsistent snapshots are repaired:
//   - an unknown page falls back to home
//   - an unknown plan id restores as no plan
//   - form and contract pages without a plan fall back to plans
//   - dependents without a plan are dropped, and those beyond the quota truncated
func (snap Snapshot) State() State {
	s := DefaultState()
	if page, ok := ParsePage(snap.CurrentPage); ok {
		s.CurrentPage = page
	}
	if snap.SelectedPlanID != nil {
		if plan, ok := PlanByID(*snap.SelectedPlanID); ok {
			s.SelectedPlan = &plan
		}
	}
	if s.SelectedPlan == nil && s.CurrentPage.RequiresPlan() {
		s.CurrentPage = PagePlans
	}
	if snap.FormData == nil {
		return s
	}

	s.Applicant = snap.FormData.Titular.person()
	for i, rec := range snap.FormData.Dependentes {
		if i >= s.DependentQuota() {
			break
		}
		s.Dependents = append(s.Dependents, rec.person())
	}
	return s
}

func recordOf(p Person) PersonRecord {
	return PersonRecord{
		Nome:           p.FullName,
		DataNascimento: p.BirthDate,
		Cpf:            p.DocumentNumber,
		Cep:            p.PostalCode,
		Numero:         p.HouseNumber,
	}
}

func (r PersonRecord) person() Person {
	return Person{
		FullName:       r.Nome,
		BirthDate:      r.DataNascimento,
		DocumentNumber: r.Cpf,
		PostalCode:     r.Cep,
		HouseNumber:    r.Numero,
	}
}
