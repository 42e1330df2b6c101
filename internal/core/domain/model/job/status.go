package job

import (
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// Status is the lifecycle state of a Job. It is a state machine whose forward
// states are ordered; a job only ever moves one step forward or exits.
//
// State transitions:
//
//	PendingResponse ──> Accepted ──> JourneyStarted ──> Visited ──> WorkDone ──> Completed ──> Closed
//	       │               │               │               │            │            │
//	       ├──> Rejected   └───────────────┴───────────────┴────────────┴────────────┴──> Cancelled
//	       └──> Cancelled
//
// Rejected, Cancelled and Closed are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingResponse is the initial status: the job was assigned and waits
	// for the worker to accept or reject it.
	PendingResponse

	// Accepted means the worker took the job but has not started travelling.
	Accepted

	// JourneyStarted means the worker is travelling to the customer site.
	// Live telemetry is active.
	JourneyStarted

	// Visited means arrival was proven with the visit code.
	// Live telemetry is still active.
	Visited

	// WorkDone means the worker submitted completion evidence.
	WorkDone

	// Completed means payment is settled with the customer.
	Completed

	// Closed means the worker was paid and the settlement acknowledged.
	// The job is immutable.
	Closed

	// Rejected means the worker declined the job. Terminal.
	Rejected

	// Cancelled means an external cancellation ended the job. Terminal.
	Cancelled
)

// getStatusStrings returns the wire names of every status, Unknown included.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "UNKNOWN",
		PendingResponse: "PENDING_RESPONSE",
		Accepted:        "ACCEPTED",
		JourneyStarted:  "JOURNEY_STARTED",
		Visited:         "VISITED",
		WorkDone:        "WORK_DONE",
		Completed:       "COMPLETED",
		Closed:          "CLOSED",
		Rejected:        "REJECTED",
		Cancelled:       "CANCELLED",
	}
}

// getTransitions returns the legal successor statuses of every non-terminal status.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no successors
	return map[Status][]Status{
		PendingResponse: {Accepted, Rejected, Cancelled},
		Accepted:        {JourneyStarted, Cancelled},
		JourneyStarted:  {Visited, Cancelled},
		Visited:         {WorkDone, Cancelled},
		WorkDone:        {Completed, Cancelled},
		Completed:       {Closed, Cancelled},
	}
}

// TravelEligibleStatuses returns the statuses during which live position
// telemetry runs.
func TravelEligibleStatuses() []Status {
	return []Status{JourneyStarted, Visited}
}

// TerminalStatuses returns the statuses with no outgoing transitions.
func TerminalStatuses() []Status {
	return []Status{Closed, Rejected, Cancelled}
}

// ParseStatus converts a wire name such as "WORK_DONE" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined states.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is Unknown or out of range
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Closed || s == Rejected || s == Cancelled
}

// IsTravelEligible reports whether telemetry should run while in s.
func (s Status) IsTravelEligible() bool {
	return s == JourneyStarted || s == Visited
}

// HasReached reports whether s is at or past target on the forward path.
// Exit states (Rejected, Cancelled) have reached nothing beyond where they left.
func (s Status) HasReached(target Status) bool {
	if s.IsExit() || target.IsExit() {
		return s == target
	}
	return s >= target
}

// IsExit reports whether s is one of the two exits from the forward path.
func (s Status) IsExit() bool {
	return s == Rejected || s == Cancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range getTransitions()[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Accept transitions PendingResponse -> Accepted.
func (s Status) Accept() (Status, error) {
	return s.transitionTo(Accepted, ActionAccept)
}

// Reject transitions PendingResponse -> Rejected.
func (s Status) Reject() (Status, error) {
	return s.transitionTo(Rejected, ActionReject)
}

// StartJourney transitions Accepted -> JourneyStarted.
func (s Status) StartJourney() (Status, error) {
	return s.transitionTo(JourneyStarted, ActionStartJourney)
}

// Visit transitions JourneyStarted -> Visited.
func (s Status) Visit() (Status, error) {
	return s.transitionTo(Visited, ActionVerifyVisit)
}

// SubmitWork transitions Visited -> WorkDone.
func (s Status) SubmitWork() (Status, error) {
	return s.transitionTo(WorkDone, ActionSubmitWork)
}

// Complete transitions WorkDone -> Completed.
func (s Status) Complete() (Status, error) {
	return s.transitionTo(Completed, ActionComplete)
}

// Close transitions Completed -> Closed.
func (s Status) Close() (Status, error) {
	return s.transitionTo(Closed, ActionConfirmSettlement)
}

// Cancel transitions any non-terminal status -> Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.transitionTo(Cancelled, ActionCancel)
}

func (s Status) transitionTo(next Status, action Action) (Status, error) {
	if !s.CanTransitionTo(next) {
		return Unknown, NewTransitionError(s, action)
	}
	return next, nil
}
