package wizard

// Recorder receives wizard telemetry.
type Recorder interface {
	// Transition counts one dispatched event and how it ended:
	// "ok", "noop", "invalid" (validation failed) or "rejected".
	Transition(event, outcome string)

	// ValidationFailed counts a submit that found invalid fields.
	ValidationFailed(fields int)

	// ContractSigned counts a signed contract for plan.
	ContractSigned(planID string)

	// SnapshotError counts a failed snapshot operation.
	SnapshotError(op string)
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string) {}
func (nopRecorder) ValidationFailed(int)      {}
func (nopRecorder) ContractSigned(string)     {}
func (nopRecorder) SnapshotError(string)      {}
