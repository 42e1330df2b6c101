package job

import (
	"errors"
	"fmt"

	"fieldservice/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job was not created via NewJob or RestoreJob.
	ErrJobIsNotConstructed = errs.NewValueIsRequiredError("job must be created via NewJob or RestoreJob")

	// ErrInvalidTransition is the root of every rejected status change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPreconditionFailed is the root of every business precondition failure.
	ErrPreconditionFailed = errors.New("precondition failed")

	ErrEvidenceRequired       = fmt.Errorf("%w: completion evidence is required", ErrPreconditionFailed)
	ErrCollectionNotInitiated = fmt.Errorf("%w: cash collection was not initiated", ErrPreconditionFailed)
	ErrPaymentModeNotCash     = fmt.Errorf("%w: payment mode is not cash", ErrPreconditionFailed)
	ErrPaymentPending         = fmt.Errorf("%w: cash jobs complete through cash collection", ErrPreconditionFailed)
	ErrWorkerAlreadyPaid      = fmt.Errorf("%w: worker payout is already confirmed", ErrPreconditionFailed)
	ErrVisitCodeMissing       = fmt.Errorf("%w: no visit code was issued", ErrPreconditionFailed)
	ErrPayoutNotConfirmed     = fmt.Errorf("%w: worker payout is not confirmed", ErrPreconditionFailed)

	ErrCodeMismatch    = errors.New("code mismatch")
	ErrAlreadyVerified = errors.New("visit is already verified")
	ErrAmountMismatch  = errors.New("amount mismatch")
	ErrStaleInitiation = errors.New("code belongs to a superseded cash collection")
	ErrJobIsImmutable  = errors.New("job is settled and immutable")
)

// TransitionError reports an action that the job's current status does not allow.
// It matches ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From   Status
	Action Action
}

// NewTransitionError creates a TransitionError for action attempted in from.
func NewTransitionError(from Status, action Action) *TransitionError {
	return &TransitionError{From: from, Action: action}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", ErrInvalidTransition, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AmountMismatchError carries both sides of a failed amount comparison, in minor units.
type AmountMismatchError struct {
	Expected int64
	Actual   int64
}

func NewAmountMismatchError(expected, actual int64) *AmountMismatchError {
	return &AmountMismatchError{Expected: expected, Actual: actual}
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrAmountMismatch, e.Expected, e.Actual)
}

func (e *AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}
