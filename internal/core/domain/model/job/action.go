package job

import (
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// Action names an operation requested on a Job. Only the transition actions
// (IsTransition) can be passed to the lifecycle controller directly; the
// others are performed through their own services and appear in errors and
// events.
type Action string

const (
	ActionAccept       Action = "ACCEPT"
	ActionReject       Action = "REJECT"
	ActionStartJourney Action = "START_JOURNEY"
	ActionVerifyVisit  Action = "VERIFY_VISIT"
	ActionSubmitWork   Action = "SUBMIT_WORK"
	ActionComplete     Action = "COMPLETE"
	ActionCancel       Action = "CANCEL"

	ActionCreate            Action = "CREATE"
	ActionResendVisitCode   Action = "RESEND_VISIT_CODE"
	ActionInitiateCash      Action = "INITIATE_CASH_COLLECTION"
	ActionConfirmCash       Action = "CONFIRM_CASH_COLLECTION"
	ActionRequestPayout     Action = "REQUEST_PAYOUT"
	ActionConfirmPayout     Action = "CONFIRM_PAYOUT"
	ActionConfirmSettlement Action = "CONFIRM_FINAL_SETTLEMENT"
	ActionRecordPosition    Action = "RECORD_POSITION"
)

// ParseTransitionAction converts a wire name into an Action accepted by the
// lifecycle controller.
func ParseTransitionAction(s string) (Action, error) {
	a := Action(s)
	if !a.IsTransition() {
		return "", errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%q is not a transition action", s))
	}
	return a, nil
}

// IsTransition reports whether a is one of the actions of the lifecycle controller.
func (a Action) IsTransition() bool {
	switch a {
	case ActionAccept, ActionReject, ActionStartJourney, ActionVerifyVisit,
		ActionSubmitWork, ActionComplete, ActionCancel:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	return string(a)
}
