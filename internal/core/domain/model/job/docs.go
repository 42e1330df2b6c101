// Package job contains the Job aggregate: one booked service visit carried
// out by a field worker, from assignment to the final settlement of money.
//
// # Lifecycle
//
// A job moves forward through PendingResponse, Accepted, JourneyStarted,
// Visited, WorkDone, Completed and Closed. It can leave the forward path to
// Rejected (only from PendingResponse) or Cancelled (from any non-terminal
// status). Each status method on Status returns the successor or a
// TransitionError, which matches ErrInvalidTransition.
//
// # Codes
//
// Two kinds of OneTimeCode guard the lifecycle. The visit code is issued when
// the journey starts and proves arrival. The cash code is issued by every cash
// collection initiation; only the newest one confirms the handover.
//
// # Money
//
// Amounts are int64 minor currency units. The total due for cash is the base
// amount plus the subtotal of every ExtraCharge.
//
// # Settlement
//
// After Completed the worker payout is requested and confirmed. Only then can
// the final settlement close the job, after which every mutation fails with
// ErrJobIsImmutable.
//
// # Events
//
// Mutations record Event values. PullEvents hands them to the unit of work,
// which publishes them after commit.
package job
