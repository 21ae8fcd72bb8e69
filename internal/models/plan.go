package models

// Plan represents a health plan tier from the fixed catalog.
// Plans are immutable; callers receive copies.
type Plan struct {
	// ID is the stable identifier stored in snapshots (e.g. "intermediario").
	ID string

	// Name is the display name of the plan.
	Name string

	// Price is the monthly price as displayed (e.g. "R$ 69,90").
	Price string

	// MonthlyCents is the monthly price in centavos.
	MonthlyCents int64

	// Description is the one-line summary shown on the plan card.
	Description string

	// Features lists the coverage highlights shown on the plan card.
	Features []string

	// DependentQuota is the maximum number of dependents the plan allows.
	DependentQuota int
}

// MonthlyLabel returns the price with its billing period (e.g. "R$ 69,90/mês").
func (p Plan) MonthlyLabel() string {
	return p.Price + "/mês"
}

var catalog = [...]Plan{
	{
		ID:             "basico",
		Name:           "Básico",
		Price:          "R$ 59,90",
		MonthlyCents:   5990,
		Description:    "Plano individual para você",
		Features:       []string{"Consultas ilimitadas", "Exames básicos", "Telemedicina 24h", "Rede credenciada"},
		DependentQuota: 0,
	},
	{
		ID:             "intermediario",
		Name:           "Intermediário",
		Price:          "R$ 69,90",
		MonthlyCents:   6990,
		Description:    "1 titular + até 3 dependentes",
		Features:       []string{"Tudo do Básico", "Exames avançados", "Urgência e emergência", "Cobertura nacional"},
		DependentQuota: 3,
	},
	{
		ID:             "premium",
		Name:           "Premium",
		Price:          "R$ 89,90",
		MonthlyCents:   8990,
		Description:    "1 titular + até 4 dependentes",
		Features:       []string{"Tudo do Intermediário", "Internações", "Cirurgias", "Cobertura internacional"},
		DependentQuota: 4,
	},
}

// Plans returns the catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		out[i] = p.clone()
	}
	return out
}

// PlanByID resolves a plan id against the catalog.
func PlanByID(id string) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Plan{}, false
}

func (p Plan) clone() Plan {
	p.Features = append([]string(nil), p.Features...)
	return p
}
