package wizard

// Event is a user action fed to the wizard.
type Event interface {
	// Name is the event's stable name, used in logs and metrics.
	Name() string
}

// Start leaves the home page for the plan list.
type Start struct{}

// SelectPlan chooses a plan by id and opens the form with empty people.
type SelectPlan struct {
	PlanID string
}

// Back returns to the previous page.
type Back struct{}

// UpdateField sets one form field. Value is formatted before it is stored.
type UpdateField struct {
	FieldRef
	Value string
}

// AddDependent appends an empty dependent if the plan quota allows it.
type AddDependent struct{}

// RemoveDependent removes the dependent at Index.
type RemoveDependent struct {
	Index int
}

// Submit validates the form and, when it is valid, opens the contract.
type Submit struct{}

// Sign signs the contract with an opaque signature artifact and hands off
// to checkout.
type Sign struct {
	Signature string
}

func (Start) Name() string           { return "start" }
func (SelectPlan) Name() string      { return "select_plan" }
func (Back) Name() string            { return "back" }
func (UpdateField) Name() string     { return "update_field" }
func (AddDependent) Name() string    { return "add_dependent" }
func (RemoveDependent) Name() string { return "remove_dependent" }
func (Submit) Name() string          { return "submit" }
func (Sign) Name() string            { return "sign" }

// Effect is a side effect requested by a transition. Effects are executed
// in order by Session.
type Effect interface {
	effect()
}

// Persist saves the new state.
type Persist struct{}

// Clear deletes the persisted snapshot.
type Clear struct{}

// Navigate hands the signed contract off to the external checkout.
type Navigate struct {
	Contract SignedContract
}

func (Persist) effect()  {}
func (Clear) effect()    {}
func (Navigate) effect() {}
