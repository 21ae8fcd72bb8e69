package models

// Page is one of the wizard's pages.
type Page string

const (
	PageHome     Page = "home"
	PagePlans    Page = "plans"
	PageForm     Page = "form"
	PageContract Page = "contract"
)

// ParsePage validates a page name as stored in snapshots.
func ParsePage(s string) (Page, bool) {
	switch p := Page(s); p {
	case PageHome, PagePlans, PageForm, PageContract:
		return p, true
	}
	return "", false
}

// RequiresPlan reports whether the page can only be shown with a selected plan.
func (p Page) RequiresPlan() bool {
	return p == PageForm || p == PageContract
}

// State is the complete wizard state of one session.
//
// Invariants:
//   - len(Dependents) <= SelectedPlan.DependentQuota
//   - SelectedPlan == nil implies no dependents
//   - CurrentPage.RequiresPlan() implies SelectedPlan != nil
type State struct {
	// CurrentPage is the page currently shown.
	CurrentPage Page

	// SelectedPlan is the chosen plan, nil until one is selected.
	SelectedPlan *Plan

	// Applicant is the primary insured person (titular).
	Applicant Person

	// Dependents are the additional insured people, in display order.
	Dependents []Person
}

// DefaultState returns the state of a fresh session: home page, nothing selected.
func DefaultState() State {
	return State{CurrentPage: PageHome}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s.SelectedPlan != nil {
		plan := s.SelectedPlan.clone()
		s.SelectedPlan = &plan
	}
	if len(s.Dependents) > 0 {
		s.Dependents = append([]Person(nil), s.Dependents...)
	} else {
		s.Dependents = nil
	}
	return s
}

// DependentQuota returns the selected plan's quota, or 0 without a plan.
func (s State) DependentQuota() int {
	if s.SelectedPlan == nil {
		return 0
	}
	return s.SelectedPlan.DependentQuota
}

// CanAddDependent reports whether another dependent fits the plan quota.
func (s State) CanAddDependent() bool {
	return len(s.Dependents) < s.DependentQuota()
}
