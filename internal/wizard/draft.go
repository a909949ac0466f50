// Package wizard carries the multi-step booking selection across
// requests: service, professional, date and slot are accumulated in a
// server-side draft and turned into a booking at the final step.
package wizard

// Step names the wizard stages in order.
type Step string

const (
	StepService      Step = "service"
	StepProfessional Step = "professional"
	StepSlot         Step = "slot"
	StepDone         Step = "done"
)

// Draft is the typed selection state, one per user. Fields fill in step
// order; clearing an earlier field invalidates the later ones.
type Draft struct {
	ServiceID string `json:"service_id,omitempty"`
	BarberID  string `json:"barber_id,omitempty"`
	Date      string `json:"date,omitempty"`
	StartISO  string `json:"start_iso,omitempty"`
}

// NextStep returns the first incomplete step, or StepDone when the
// draft is ready for the final create.
func (d *Draft) NextStep() Step {
	switch {
	case d.ServiceID == "":
		return StepService
	case d.BarberID == "":
		return StepProfessional
	case d.StartISO == "":
		return StepSlot
	default:
		return StepDone
	}
}

// Complete reports whether every field required for create is present.
func (d *Draft) Complete() bool {
	return d.NextStep() == StepDone
}
