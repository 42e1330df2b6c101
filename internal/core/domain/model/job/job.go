package job

import (
	"errors"
	"slices"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

const (
	// EvidenceMaxItems bounds the number of evidence references on a job.
	EvidenceMaxItems = 20
	// EvidenceMaxLength bounds a single evidence reference.
	EvidenceMaxLength = 2048
)

// Booking carries what the marketplace knows about a job when it is assigned.
// Amounts are in minor currency units.
type Booking struct {
	WorkerID       kernel.UUID
	ScheduledAt    time.Time
	PaymentMode    PaymentMode
	BaseAmount     int64
	TaxAmount      int64
	FeeAmount      int64
	DiscountAmount int64
}

// Job is the aggregate root of a single booked service visit. It owns the
// lifecycle status, the visit code, cash collection and the settlement
// bookkeeping with the worker.
//
// Job follows these invariants:
//   - Status only moves along the forward path or to an exit, never backward
//   - Lifecycle timestamps are set once, on first entry into their status
//   - cashCollected implies the payment mode is cash
//   - A DONE final settlement implies the worker is PAID and the job is immutable
//   - Can only be created through NewJob or RestoreJob
//
// Every mutating method takes the instant of the change so the caller owns
// the clock.
type Job struct {
	id       kernel.UUID
	workerID kernel.UUID

	status         Status
	workerResponse WorkerResponse

	scheduledAt      time.Time
	journeyStartedAt *time.Time
	visitedAt        *time.Time
	workDoneAt       *time.Time
	completedAt      *time.Time
	cancelledAt      *time.Time
	closedAt         *time.Time

	paymentMode    PaymentMode
	baseAmount     int64
	taxAmount      int64
	feeAmount      int64
	discountAmount int64
	extraCharges   []ExtraCharge

	completionEvidence []string
	cancellationReason string

	visitCode      *OneTimeCode
	cashCollection *CashCollection
	cashCollected  bool

	workerPaymentStatus   WorkerPaymentStatus
	payoutRequestedAt     *time.Time
	payoutReference       string
	paidAt                *time.Time
	finalSettlementStatus SettlementStatus

	lastKnownPosition *kernel.PositionSample

	// version is the optimistic concurrency token of the persisted row.
	version int64

	events []Event

	isConstructed bool
}

// NewJob creates a job in PendingResponse for the worker named in the booking.
//
// Parameters:
//   - id: unique identifier of the job
//   - booking: worker, schedule, payment mode and non-negative amounts;
//     the discount may not exceed base + tax + fee
//   - at: creation instant, recorded on the EventCreated event
//
// Returns:
//   - *Job: the created job
//   - error: joined validation errors
//
// Example:
//
//	j, err := job.NewJob(kernel.NewUUID(), job.Booking{
//	    WorkerID:    workerID,
//	    ScheduledAt: slot,
//	    PaymentMode: job.PaymentModeCash,
//	    BaseAmount:  50_000,
//	}, time.Now())
func NewJob(id kernel.UUID, booking Booking, at time.Time) (*Job, error) {
	j := &Job{
		status:        PendingResponse,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setWorkerID(booking.WorkerID),
		j.setScheduledAt(booking.ScheduledAt),
		j.setPaymentMode(booking.PaymentMode),
		j.setAmounts(booking.BaseAmount, booking.TaxAmount, booking.FeeAmount, booking.DiscountAmount),
	); err != nil {
		return nil, err
	}

	j.record(EventCreated, ActionCreate, Unknown, PendingResponse, at)
	return j, nil
}

// Validate ensures the Job was properly constructed through NewJob or RestoreJob.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

func (j *Job) ID() kernel.UUID { return j.id }
func (j *Job) WorkerID() kernel.UUID { return j.workerID }
func (j *Job) Status() Status { return j.status }
func (j *Job) WorkerResponse() WorkerResponse { return j.workerResponse }
func (j *Job) ScheduledAt() time.Time { return j.scheduledAt }
func (j *Job) PaymentMode() PaymentMode { return j.paymentMode }
func (j *Job) CashCollected() bool { return j.cashCollected }
func (j *Job) WorkerPayment() WorkerPaymentStatus { return j.workerPaymentStatus }
func (j *Job) FinalSettlement() SettlementStatus { return j.finalSettlementStatus }
func (j *Job) Version() int64 { return j.version }

// JourneyStartedAt returns when the job entered JourneyStarted, nil if it never did.
func (j *Job) JourneyStartedAt() *time.Time { return cloneTime(j.journeyStartedAt) }

// VisitedAt returns when the visit was verified, nil if it never was.
func (j *Job) VisitedAt() *time.Time { return cloneTime(j.visitedAt) }

func (j *Job) WorkDoneAt() *time.Time { return cloneTime(j.workDoneAt) }
func (j *Job) CompletedAt() *time.Time { return cloneTime(j.completedAt) }
func (j *Job) CancelledAt() *time.Time { return cloneTime(j.cancelledAt) }
func (j *Job) ClosedAt() *time.Time { return cloneTime(j.closedAt) }

// LastKnownPosition returns the newest accepted position, nil if none.
func (j *Job) LastKnownPosition() *kernel.PositionSample {
	if j.lastKnownPosition == nil {
		return nil
	}
	p := *j.lastKnownPosition
	return &p
}

// VisitCode returns the code issued when the journey started, nil before that.
func (j *Job) VisitCode() *OneTimeCode {
	if j.visitCode == nil {
		return nil
	}
	c := *j.visitCode
	return &c
}

// CashCollection returns a copy of the active cash collection, nil if none was initiated.
func (j *Job) CashCollection() *CashCollection {
	return j.cashCollection.clone()
}

// PayableAmount returns base + tax + fee - discount.
func (j *Job) PayableAmount() int64 {
	return j.baseAmount + j.taxAmount + j.feeAmount - j.discountAmount
}

// IsImmutable reports whether the final settlement closed the books.
func (j *Job) IsImmutable() bool {
	return j.finalSettlementStatus == SettlementDone
}

// IncrementVersion advances the concurrency token after a successful write.
func (j *Job) IncrementVersion() {
	j.version++
}

// PullEvents returns the events recorded since the last pull and clears them.
func (j *Job) PullEvents() []Event {
	events := j.events
	j.events = nil
	return events
}

// Accept records the worker's acceptance. Allowed only from PendingResponse.
func (j *Job) Accept(at time.Time) error {
	return j.transition(ActionAccept, at, func(next Status) {
		j.workerResponse = ResponseAccepted
	})
}

// Reject records the worker's refusal. Allowed only from PendingResponse.
func (j *Job) Reject(at time.Time) error {
	return j.transition(ActionReject, at, func(next Status) {
		j.workerResponse = ResponseRejected
	})
}

// StartJourney moves the job to JourneyStarted and stores the visit code the
// customer will hand to the worker on arrival.
//
// Returns:
//   - nil on success
//   - TransitionError unless the job is Accepted
//   - validation error if code was not constructed
func (j *Job) StartJourney(code OneTimeCode, at time.Time) error {
	if err := code.Validate(); err != nil {
		return err
	}
	if err := j.transition(ActionStartJourney, at, func(next Status) {
		j.visitCode = &code
		j.journeyStartedAt = setOnce(j.journeyStartedAt, at)
	}); err != nil {
		return err
	}

	j.record(EventVisitCodeIssued, ActionStartJourney, j.status, j.status, at)
	return nil
}

// VerifyVisit proves arrival at the customer site.
//
// The check order is fixed:
//  1. a job already verified fails with ErrAlreadyVerified
//  2. a job not in JourneyStarted fails with a TransitionError
//  3. a job with no issued code fails with ErrVisitCodeMissing
//  4. a wrong code fails with ErrCodeMismatch and changes nothing
//
// On success the job becomes Visited, visitedAt is set and sample, when not
// nil, is recorded as the last known position. A nil sample does not block
// verification.
func (j *Job) VerifyVisit(code OneTimeCode, sample *kernel.PositionSample, at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if j.visitedAt != nil || (j.status.HasReached(Visited) && !j.status.IsExit()) {
		return ErrAlreadyVerified
	}
	if j.status != JourneyStarted {
		return NewTransitionError(j.status, ActionVerifyVisit)
	}
	if j.visitCode == nil {
		return ErrVisitCodeMissing
	}
	if !j.visitCode.Matches(code) {
		return ErrCodeMismatch
	}

	return j.transition(ActionVerifyVisit, at, func(next Status) {
		j.visitedAt = setOnce(j.visitedAt, at)
		if sample != nil {
			j.recordPosition(*sample)
		}
	})
}

// SubmitWork stores completion evidence and moves the job to WorkDone.
// Blank references are dropped; at least one must remain.
func (j *Job) SubmitWork(evidence []string, at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if !j.status.CanTransitionTo(WorkDone) {
		return NewTransitionError(j.status, ActionSubmitWork)
	}

	cleaned := make([]string, 0, len(evidence))
	for _, e := range evidence {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	if len(cleaned) == 0 {
		return ErrEvidenceRequired
	}
	if len(cleaned) > EvidenceMaxItems {
		return errs.NewValueIsOutOfRangeError("evidence items", len(cleaned), 1, EvidenceMaxItems)
	}
	for _, e := range cleaned {
		if len(e) > EvidenceMaxLength {
			return errs.NewValueIsOutOfRangeError("evidence length", len(e), 1, EvidenceMaxLength)
		}
	}

	return j.transition(ActionSubmitWork, at, func(next Status) {
		j.completionEvidence = cleaned
		j.workDoneAt = setOnce(j.workDoneAt, at)
	})
}

// Complete settles a non-cash job. Cash jobs complete only through
// ConfirmCashCollection and fail here with ErrPaymentPending.
func (j *Job) Complete(at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if !j.status.CanTransitionTo(Completed) {
		return NewTransitionError(j.status, ActionComplete)
	}
	if j.paymentMode == PaymentModeCash {
		return ErrPaymentPending
	}

	return j.transition(ActionComplete, at, func(next Status) {
		j.completedAt = setOnce(j.completedAt, at)
	})
}

// InitiateCashCollection computes the amount due and makes code the only
// acceptable confirmation code. A previous initiation is superseded.
//
// Parameters:
//   - baseAmount: amount before extras; nil uses PayableAmount
//   - charges: on-site extras; they replace any earlier list
//   - code: fresh code delivered to the customer
//   - at: initiation instant
//
// Returns:
//   - int64: the total due, base plus every charge subtotal
//   - error: TransitionError unless WorkDone, ErrPaymentModeNotCash for
//     non-cash jobs, validation errors otherwise
func (j *Job) InitiateCashCollection(
	baseAmount *int64,
	charges []ExtraCharge,
	code OneTimeCode,
	at time.Time,
) (int64, error) {
	if err := j.ensureMutable(); err != nil {
		return 0, err
	}
	if j.status != WorkDone {
		return 0, NewTransitionError(j.status, ActionInitiateCash)
	}
	if j.paymentMode != PaymentModeCash {
		return 0, ErrPaymentModeNotCash
	}
	if err := errors.Join(code.Validate(), validateCharges(charges)); err != nil {
		return 0, err
	}

	base := j.PayableAmount()
	if baseAmount != nil {
		if *baseAmount < 0 {
			return 0, errs.NewValueIsOutOfRangeError("baseAmount", *baseAmount, 0, "unbounded")
		}
		base = *baseAmount
	}

	var superseded []OneTimeCode
	if j.cashCollection != nil {
		superseded = append(slices.Clone(j.cashCollection.superseded), j.cashCollection.code)
	}

	total, err := TotalDue(base, charges)
	if err != nil {
		return 0, err
	}
	j.cashCollection = &CashCollection{
		code:        code,
		baseAmount:  base,
		totalDue:    total,
		initiatedAt: at.UTC(),
		superseded:  superseded,
	}
	j.extraCharges = slices.Clone(charges)
	j.record(EventCashCollectionInitiated, ActionInitiateCash, j.status, j.status, at)

	return total, nil
}

// ConfirmCashCollection records the cash handover and completes the job.
//
// The code is checked before the amount. A code from a superseded initiation
// fails with ErrStaleInitiation, any other wrong code with ErrCodeMismatch.
// totalAmount must equal the stored total, and so must the total recomputed
// from the stored base and charges.
func (j *Job) ConfirmCashCollection(code OneTimeCode, totalAmount int64, charges []ExtraCharge, at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if j.status != WorkDone {
		return NewTransitionError(j.status, ActionConfirmCash)
	}
	if j.paymentMode != PaymentModeCash {
		return ErrPaymentModeNotCash
	}
	if j.cashCollection == nil {
		return ErrCollectionNotInitiated
	}
	if err := validateCharges(charges); err != nil {
		return err
	}

	active := j.cashCollection
	if !active.code.Matches(code) {
		if active.wasSuperseded(code) {
			return ErrStaleInitiation
		}
		return ErrCodeMismatch
	}
	if totalAmount != active.totalDue {
		return NewAmountMismatchError(active.totalDue, totalAmount)
	}
	recomputed, err := TotalDue(active.baseAmount, charges)
	if err != nil {
		return err
	}
	if recomputed != active.totalDue {
		return NewAmountMismatchError(active.totalDue, recomputed)
	}

	return j.transition(ActionConfirmCash, at, func(next Status) {
		confirmed := at.UTC()
		active.confirmedAt = &confirmed
		j.cashCollected = true
		j.completedAt = setOnce(j.completedAt, at)
	})
}

// Cancel ends the job from any non-terminal status.
func (j *Job) Cancel(reason string, at time.Time) error {
	return j.transition(ActionCancel, at, func(next Status) {
		j.cancellationReason = strings.TrimSpace(reason)
		j.cancelledAt = setOnce(j.cancelledAt, at)
	})
}

// RequestPayout marks that the worker's payout was asked for. It may be
// repeated until the payout is confirmed.
func (j *Job) RequestPayout(at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if j.status != Completed {
		return NewTransitionError(j.status, ActionRequestPayout)
	}
	if j.workerPaymentStatus == WorkerPaymentPaid {
		return ErrWorkerAlreadyPaid
	}

	requested := at.UTC()
	j.payoutRequestedAt = &requested
	j.record(EventPayoutRequested, ActionRequestPayout, j.status, j.status, at)
	return nil
}

// ConfirmPayout records that the payer paid the worker.
func (j *Job) ConfirmPayout(reference string, at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if j.status != Completed {
		return NewTransitionError(j.status, ActionConfirmPayout)
	}
	if j.workerPaymentStatus == WorkerPaymentPaid {
		return ErrWorkerAlreadyPaid
	}

	paid := at.UTC()
	j.workerPaymentStatus = WorkerPaymentPaid
	j.payoutReference = strings.TrimSpace(reference)
	j.paidAt = &paid
	j.record(EventWorkerPaid, ActionConfirmPayout, j.status, j.status, at)
	return nil
}

// ConfirmFinalSettlement closes the books: the settlement becomes DONE, the
// job moves to Closed and accepts no further change.
//
// Returns:
//   - ErrJobIsImmutable if already settled
//   - TransitionError unless Completed
//   - ErrPayoutNotConfirmed unless the worker is PAID
func (j *Job) ConfirmFinalSettlement(at time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if j.status != Completed {
		return NewTransitionError(j.status, ActionConfirmSettlement)
	}
	if j.workerPaymentStatus != WorkerPaymentPaid {
		return ErrPayoutNotConfirmed
	}

	return j.transition(ActionConfirmSettlement, at, func(next Status) {
		j.finalSettlementStatus = SettlementDone
		j.closedAt = setOnce(j.closedAt, at)
	})
}

// transition applies the status move named by action, runs apply and records
// the change. apply is not called when the move is illegal.
func (j *Job) transition(action Action, at time.Time, apply func(next Status)) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}

	next, err := j.nextStatus(action)
	if err != nil {
		return err
	}

	from := j.status
	j.status = next
	apply(next)
	j.record(EventStatusChanged, action, from, next, at)
	return nil
}

func (j *Job) nextStatus(action Action) (Status, error) {
	switch action {
	case ActionAccept:
		return j.status.Accept()
	case ActionReject:
		return j.status.Reject()
	case ActionStartJourney:
		return j.status.StartJourney()
	case ActionVerifyVisit:
		return j.status.Visit()
	case ActionSubmitWork:
		return j.status.SubmitWork()
	case ActionComplete, ActionConfirmCash:
		return j.status.Complete()
	case ActionConfirmSettlement:
		return j.status.Close()
	case ActionCancel:
		return j.status.Cancel()
	default:
		return Unknown, NewTransitionError(j.status, action)
	}
}

func (j *Job) ensureMutable() error {
	if err := j.Validate(); err != nil {
		return err
	}
	if j.IsImmutable() {
		return ErrJobIsImmutable
	}
	return nil
}

// recordPosition keeps sample only if it is newer than the stored one.
func (j *Job) recordPosition(sample kernel.PositionSample) {
	if j.lastKnownPosition != nil && !sample.CapturedAt().After(j.lastKnownPosition.CapturedAt()) {
		return
	}
	j.lastKnownPosition = &sample
}

func (j *Job) record(kind EventKind, action Action, from, to Status, at time.Time) {
	j.events = append(j.events, Event{
		JobID:      j.id,
		WorkerID:   j.workerID,
		Kind:       kind,
		Action:     action,
		From:       from,
		To:         to,
		OccurredAt: at.UTC(),
	})
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	j.id = id
	return nil
}

func (j *Job) setWorkerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("workerID", err)
	}
	j.workerID = id
	return nil
}

func (j *Job) setScheduledAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("scheduledAt")
	}
	j.scheduledAt = at.UTC()
	return nil
}

func (j *Job) setPaymentMode(mode PaymentMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	j.paymentMode = mode
	return nil
}

func (j *Job) setAmounts(base, tax, fee, discount int64) error {
	var errList []error
	for name, v := range map[string]int64{"baseAmount": base, "taxAmount": tax, "feeAmount": fee, "discountAmount": discount} {
		if v < 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(name, v, 0, "unbounded"))
		}
	}
	if len(errList) == 0 && discount > base+tax+fee {
		errList = append(errList, errs.NewValueIsOutOfRangeError("discountAmount", discount, 0, base+tax+fee))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	j.baseAmount, j.taxAmount, j.feeAmount, j.discountAmount = base, tax, fee, discount
	return nil
}

func setOnce(current *time.Time, at time.Time) *time.Time {
	if current != nil {
		return current
	}
	t := at.UTC()
	return &t
}
