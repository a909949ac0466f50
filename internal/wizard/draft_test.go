package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftNextStep(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		want  Step
	}{
		{"empty", Draft{}, StepService},
		{"service chosen", Draft{ServiceID: "s-1"}, StepProfessional},
		{"professional chosen", Draft{ServiceID: "s-1", BarberID: "b-1"}, StepSlot},
		{"complete", Draft{ServiceID: "s-1", BarberID: "b-1", Date: "2026-09-10", StartISO: "2026-09-10T11:00:00+01:00"}, StepDone},
		// A date alone does not advance past the slot step.
		{"date without slot", Draft{ServiceID: "s-1", BarberID: "b-1", Date: "2026-09-10"}, StepSlot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.draft.NextStep())
			assert.Equal(t, tc.want == StepDone, tc.draft.Complete())
		})
	}
}
