// Package tracking projects a server-reported order status onto the fixed
// delivery step sequence the progress screen renders. The client never
// advances a status itself; it mirrors whatever the last fetch returned.
package tracking

import "tiffinbox/internal/models"

// Steps is the canonical ordered delivery sequence. Cancelled is a sentinel
// outside the sequence and never appears here.
var Steps = []models.OrderStatus{
	models.OrderStatusPlaced,
	models.OrderStatusConfirmed,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
	models.OrderStatusPickedUp,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

// StepState is the rendering state of one step in the progress view.
type StepState int

const (
	StepPending StepState = iota
	StepCurrent
	StepComplete
)

func (s StepState) String() string {
	switch s {
	case StepComplete:
		return "complete"
	case StepCurrent:
		return "current"
	default:
		return "pending"
	}
}

// Step pairs a status with its projected rendering state.
type Step struct {
	Status models.OrderStatus
	State  StepState
}

// Projection is the progress view for one fetched status.
type Projection struct {
	Steps     []Step
	Cancelled bool
}

// CompletedCount returns how many steps render as complete or current.
func (p Projection) CompletedCount() int {
	var n int
	for _, step := range p.Steps {
		if step.State != StepPending {
			n++
		}
	}
	return n
}

// StepIndex returns the position of a status in the canonical sequence,
// or -1 for cancelled and anything unrecognized.
func StepIndex(status models.OrderStatus) int {
	for i, step := range Steps {
		if step == status {
			return i
		}
	}
	return -1
}

// Project maps a raw status onto the step sequence. Steps up to the current
// index are complete, the current index is current, the rest pending. An
// unrecognized status projects everything as pending rather than failing;
// cancelled short-circuits the sequence entirely.
func Project(status models.OrderStatus) Projection {
	if status == models.OrderStatusCancelled {
		return Projection{Steps: pendingSteps(), Cancelled: true}
	}

	current := StepIndex(status)
	steps := make([]Step, len(Steps))
	for i, s := range Steps {
		state := StepPending
		switch {
		case current >= 0 && i < current:
			state = StepComplete
		case i == current:
			state = StepCurrent
		}
		steps[i] = Step{Status: s, State: state}
	}
	return Projection{Steps: steps}
}

func pendingSteps() []Step {
	steps := make([]Step, len(Steps))
	for i, s := range Steps {
		steps[i] = Step{Status: s, State: StepPending}
	}
	return steps
}
