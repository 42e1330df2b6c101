package job

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

// Snapshot is a flat, exported copy of a Job's state. Repositories persist it,
// read models render it and RestoreJob rebuilds a Job from it.
type Snapshot struct {
	ID       kernel.UUID
	WorkerID kernel.UUID

	Status         Status
	WorkerResponse WorkerResponse

	ScheduledAt      time.Time
	JourneyStartedAt *time.Time
	VisitedAt        *time.Time
	WorkDoneAt       *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	ClosedAt         *time.Time

	PaymentMode    PaymentMode
	BaseAmount     int64
	TaxAmount      int64
	FeeAmount      int64
	DiscountAmount int64
	ExtraCharges   []ExtraCharge

	CompletionEvidence []string
	CancellationReason string

	VisitCode      *OneTimeCode
	CashCollection *CashCollection
	CashCollected  bool

	WorkerPaymentStatus   WorkerPaymentStatus
	PayoutRequestedAt     *time.Time
	PayoutReference       string
	PaidAt                *time.Time
	FinalSettlementStatus SettlementStatus

	LastKnownPosition *kernel.PositionSample

	Version int64
}

// PayableAmount returns base + tax + fee - discount of the snapshot.
func (s Snapshot) PayableAmount() int64 {
	return s.BaseAmount + s.TaxAmount + s.FeeAmount - s.DiscountAmount
}

// Snapshot copies the job's state. Mutating the result does not affect the job.
func (j *Job) Snapshot() Snapshot {
	var code *OneTimeCode
	if j.visitCode != nil {
		c := *j.visitCode
		code = &c
	}

	return Snapshot{
		ID:                    j.id,
		WorkerID:              j.workerID,
		Status:                j.status,
		WorkerResponse:        j.workerResponse,
		ScheduledAt:           j.scheduledAt,
		JourneyStartedAt:      cloneTime(j.journeyStartedAt),
		VisitedAt:             cloneTime(j.visitedAt),
		WorkDoneAt:            cloneTime(j.workDoneAt),
		CompletedAt:           cloneTime(j.completedAt),
		CancelledAt:           cloneTime(j.cancelledAt),
		ClosedAt:              cloneTime(j.closedAt),
		PaymentMode:           j.paymentMode,
		BaseAmount:            j.baseAmount,
		TaxAmount:             j.taxAmount,
		FeeAmount:             j.feeAmount,
		DiscountAmount:        j.discountAmount,
		ExtraCharges:          slices.Clone(j.extraCharges),
		CompletionEvidence:    slices.Clone(j.completionEvidence),
		CancellationReason:    j.cancellationReason,
		VisitCode:             code,
		CashCollection:        j.cashCollection.clone(),
		CashCollected:         j.cashCollected,
		WorkerPaymentStatus:   j.workerPaymentStatus,
		PayoutRequestedAt:     cloneTime(j.payoutRequestedAt),
		PayoutReference:       j.payoutReference,
		PaidAt:                cloneTime(j.paidAt),
		FinalSettlementStatus: j.finalSettlementStatus,
		LastKnownPosition:     j.LastKnownPosition(),
		Version:               j.version,
	}
}

// RestoreJob rebuilds a Job from persisted state. It validates the fields and
// the cross-field invariants but records no events.
//
// Returns:
//   - *Job: the restored job
//   - error: joined validation errors, or ErrValueIsInvalid wrapping the
//     violated invariant
func RestoreJob(s Snapshot) (*Job, error) {
	j := &Job{isConstructed: true}

	if err := errors.Join(
		j.setID(s.ID),
		j.setWorkerID(s.WorkerID),
		j.setScheduledAt(s.ScheduledAt),
		j.setPaymentMode(s.PaymentMode),
		j.setAmounts(s.BaseAmount, s.TaxAmount, s.FeeAmount, s.DiscountAmount),
		s.Status.Validate(),
		s.WorkerResponse.Validate(),
		s.WorkerPaymentStatus.Validate(),
		s.FinalSettlementStatus.Validate(),
		validateCharges(s.ExtraCharges),
	); err != nil {
		return nil, err
	}
	if err := checkInvariants(s); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("job", err)
	}

	j.status = s.Status
	j.workerResponse = s.WorkerResponse
	j.journeyStartedAt = cloneTime(s.JourneyStartedAt)
	j.visitedAt = cloneTime(s.VisitedAt)
	j.workDoneAt = cloneTime(s.WorkDoneAt)
	j.completedAt = cloneTime(s.CompletedAt)
	j.cancelledAt = cloneTime(s.CancelledAt)
	j.closedAt = cloneTime(s.ClosedAt)
	j.extraCharges = slices.Clone(s.ExtraCharges)
	j.completionEvidence = slices.Clone(s.CompletionEvidence)
	j.cancellationReason = s.CancellationReason
	if s.VisitCode != nil {
		c := *s.VisitCode
		j.visitCode = &c
	}
	j.cashCollection = s.CashCollection.clone()
	j.cashCollected = s.CashCollected
	j.workerPaymentStatus = s.WorkerPaymentStatus
	j.payoutRequestedAt = cloneTime(s.PayoutRequestedAt)
	j.payoutReference = s.PayoutReference
	j.paidAt = cloneTime(s.PaidAt)
	j.finalSettlementStatus = s.FinalSettlementStatus
	if s.LastKnownPosition != nil {
		p := *s.LastKnownPosition
		j.lastKnownPosition = &p
	}
	j.version = s.Version

	return j, nil
}

func checkInvariants(s Snapshot) error {
	if s.CashCollected && s.PaymentMode != PaymentModeCash {
		return fmt.Errorf("cash collected on a %s job", s.PaymentMode)
	}
	if s.FinalSettlementStatus == SettlementDone && s.WorkerPaymentStatus != WorkerPaymentPaid {
		return fmt.Errorf("settled while worker payment is %s", s.WorkerPaymentStatus)
	}
	if s.FinalSettlementStatus == SettlementDone && s.Status != Closed {
		return fmt.Errorf("settled while status is %s", s.Status)
	}
	if s.VisitedAt != nil && !s.Status.HasReached(Visited) && !s.Status.IsExit() {
		return fmt.Errorf("visit verified while status is %s", s.Status)
	}
	if s.Version < 0 {
		return fmt.Errorf("negative version %d", s.Version)
	}
	return nil
}
