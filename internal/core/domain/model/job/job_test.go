package job_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustCode(t *testing.T, v string) job.OneTimeCode {
	t.Helper()
	c, err := job.NewOneTimeCode(v)
	require.NoError(t, err)
	return c
}

func mustCharge(t *testing.T, name string, price int64, qty int) job.ExtraCharge {
	t.Helper()
	c, err := job.NewExtraCharge(name, price, qty)
	require.NoError(t, err)
	return c
}

func newJob(t *testing.T, mode job.PaymentMode) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), job.Booking{
		WorkerID:       kernel.NewUUID(),
		ScheduledAt:    t0.Add(2 * time.Hour),
		PaymentMode:    mode,
		BaseAmount:     50_000,
		TaxAmount:      9_000,
		FeeAmount:      1_000,
		DiscountAmount: 5_000,
	}, t0)
	require.NoError(t, err)
	return j
}

// advance walks j along the forward path until it reaches target.
func advance(t *testing.T, j *job.Job, target job.Status) {
	t.Helper()
	at := t0
	for j.Status() != target {
		at = at.Add(time.Minute)
		var err error
		switch j.Status() {
		case job.PendingResponse:
			err = j.Accept(at)
		case job.Accepted:
			err = j.StartJourney(mustCode(t, "1111"), at)
		case job.JourneyStarted:
			err = j.VerifyVisit(mustCode(t, "1111"), nil, at)
		case job.Visited:
			err = j.SubmitWork([]string{"s3://evidence/after.jpg"}, at)
		case job.WorkDone:
			if j.PaymentMode() == job.PaymentModeCash {
				var total int64
				total, err = j.InitiateCashCollection(nil, nil, mustCode(t, "2222"), at)
				require.NoError(t, err)
				err = j.ConfirmCashCollection(mustCode(t, "2222"), total, nil, at)
			} else {
				err = j.Complete(at)
			}
		case job.Completed:
			require.NoError(t, j.ConfirmPayout("PAY-1", at))
			err = j.ConfirmFinalSettlement(at)
		default:
			t.Fatalf("cannot advance from %s", j.Status())
		}
		require.NoError(t, err)
	}
}

func TestNewJob(t *testing.T) {
	t.Run("should create pending job", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)

		require.NoError(t, j.Validate())
		assert.Equal(t, job.PendingResponse, j.Status())
		assert.Equal(t, job.ResponseUnset, j.WorkerResponse())
		assert.Equal(t, int64(55_000), j.PayableAmount())
		assert.Equal(t, job.WorkerPaymentUnpaid, j.WorkerPayment())
		assert.Equal(t, job.SettlementOpen, j.FinalSettlement())
		assert.Nil(t, j.VisitCode())
		assert.Nil(t, j.LastKnownPosition())

		events := j.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, job.EventCreated, events[0].Kind)
		assert.Empty(t, j.PullEvents())
	})

	t.Run("should join validation errors", func(t *testing.T) {
		j, err := job.NewJob(kernel.UUID{}, job.Booking{BaseAmount: -1}, t0)

		require.Error(t, err)
		assert.Nil(t, j)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "workerID")
		assert.Contains(t, err.Error(), "payment mode")
	})

	t.Run("discount may not exceed the gross amount", func(t *testing.T) {
		_, err := job.NewJob(kernel.NewUUID(), job.Booking{
			WorkerID: kernel.NewUUID(), ScheduledAt: t0, PaymentMode: job.PaymentModeCash,
			BaseAmount: 100, DiscountAmount: 101,
		}, t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "discountAmount")
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var j *job.Job
		require.ErrorIs(t, j.Validate(), job.ErrJobIsNotConstructed)
		require.ErrorIs(t, (&job.Job{}).Accept(t0), job.ErrJobIsNotConstructed)
	})
}

func TestJob_AcceptReject(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)

		require.NoError(t, j.Accept(t0))

		assert.Equal(t, job.Accepted, j.Status())
		assert.Equal(t, job.ResponseAccepted, j.WorkerResponse())
	})

	t.Run("reject is terminal", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)

		require.NoError(t, j.Reject(t0))

		assert.Equal(t, job.Rejected, j.Status())
		assert.Equal(t, job.ResponseRejected, j.WorkerResponse())
		require.ErrorIs(t, j.Accept(t0), job.ErrInvalidTransition)
		require.ErrorIs(t, j.Cancel("late", t0), job.ErrInvalidTransition)
	})

	t.Run("second response is refused", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		require.NoError(t, j.Accept(t0))

		err := j.Reject(t0)

		var te *job.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, job.Accepted, te.From)
		assert.Equal(t, job.ActionReject, te.Action)
		assert.Equal(t, job.ResponseAccepted, j.WorkerResponse())
	})
}

func TestJob_StartJourney(t *testing.T) {
	j := newJob(t, job.PaymentModeCash)

	require.ErrorIs(t, j.StartJourney(mustCode(t, "1234"), t0), job.ErrInvalidTransition)
	require.NoError(t, j.Accept(t0))
	require.Error(t, j.StartJourney(job.OneTimeCode{}, t0))

	require.NoError(t, j.StartJourney(mustCode(t, "1234"), t0.Add(time.Minute)))

	assert.Equal(t, job.JourneyStarted, j.Status())
	require.NotNil(t, j.VisitCode())
	assert.Equal(t, "1234", j.VisitCode().Value())
	assert.Equal(t, t0.Add(time.Minute), *j.JourneyStartedAt())
}

func TestJob_VerifyVisit(t *testing.T) {
	site, _ := kernel.NewPosition(12.9716, 77.5946)
	sample, _ := kernel.NewPositionSample(site, 90, t0)

	t.Run("correct code verifies and records position", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.JourneyStarted)
		at := t0.Add(time.Hour)

		require.NoError(t, j.VerifyVisit(mustCode(t, "1111"), &sample, at))

		assert.Equal(t, job.Visited, j.Status())
		assert.Equal(t, at, *j.VisitedAt())
		require.NotNil(t, j.LastKnownPosition())
		assert.True(t, j.LastKnownPosition().CapturedAt().Equal(t0))
	})

	t.Run("missing position does not block verification", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.JourneyStarted)

		require.NoError(t, j.VerifyVisit(mustCode(t, "1111"), nil, t0))

		assert.Equal(t, job.Visited, j.Status())
		assert.Nil(t, j.LastKnownPosition())
	})

	t.Run("wrong code changes nothing", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.JourneyStarted)
		before := j.Snapshot()

		err := j.VerifyVisit(mustCode(t, "9999"), &sample, t0)

		require.ErrorIs(t, err, job.ErrCodeMismatch)
		assert.Equal(t, before, j.Snapshot())
	})

	t.Run("second verification is refused", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.Visited)
		visitedAt := j.VisitedAt()

		err := j.VerifyVisit(mustCode(t, "1111"), nil, t0.Add(time.Hour))

		require.ErrorIs(t, err, job.ErrAlreadyVerified)
		assert.Equal(t, visitedAt, j.VisitedAt())

		advance(t, j, job.WorkDone)
		require.ErrorIs(t, j.VerifyVisit(mustCode(t, "1111"), nil, t0), job.ErrAlreadyVerified)
	})

	t.Run("before the journey is an invalid transition", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.Accepted)

		require.ErrorIs(t, j.VerifyVisit(mustCode(t, "1111"), nil, t0), job.ErrInvalidTransition)
	})
}

func TestJob_SubmitWork(t *testing.T) {
	t.Run("requires evidence", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.Visited)

		err := j.SubmitWork([]string{" ", ""}, t0)

		require.ErrorIs(t, err, job.ErrEvidenceRequired)
		require.ErrorIs(t, err, job.ErrPreconditionFailed)
		assert.Equal(t, job.Visited, j.Status())
	})

	t.Run("stores trimmed evidence", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.Visited)

		require.NoError(t, j.SubmitWork([]string{" a.jpg ", "", "b.jpg"}, t0))

		assert.Equal(t, job.WorkDone, j.Status())
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, j.Snapshot().CompletionEvidence)
	})

	t.Run("transition is checked before evidence", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.JourneyStarted)

		require.ErrorIs(t, j.SubmitWork(nil, t0), job.ErrInvalidTransition)
	})
}

func TestJob_Complete(t *testing.T) {
	t.Run("non-cash job completes directly", func(t *testing.T) {
		j := newJob(t, job.PaymentModePlanBenefit)
		advance(t, j, job.WorkDone)

		require.NoError(t, j.Complete(t0))

		assert.Equal(t, job.Completed, j.Status())
		assert.False(t, j.CashCollected())
	})

	t.Run("cash job must go through collection", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)

		require.ErrorIs(t, j.Complete(t0), job.ErrPaymentPending)
		assert.Equal(t, job.WorkDone, j.Status())
	})
}

func TestJob_CashCollection(t *testing.T) {
	gas := func(t *testing.T) []job.ExtraCharge { return []job.ExtraCharge{mustCharge(t, "Gas refill", 80_000, 1)} }
	base := int64(50_000)

	t.Run("initiate computes total with extras", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)

		total, err := j.InitiateCashCollection(&base, gas(t), mustCode(t, "4321"), t0)

		require.NoError(t, err)
		assert.Equal(t, int64(130_000), total)
		require.NotNil(t, j.CashCollection())
		assert.Equal(t, int64(130_000), j.CashCollection().TotalDue())
	})

	t.Run("initiate rejects a total that does not fit", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		j.PullEvents()
		huge := int64(math.MaxInt64 - 1)
		charges := []job.ExtraCharge{mustCharge(t, "Pipe", job.ExtraChargeUnitPriceMax, 3)}

		_, err := j.InitiateCashCollection(&huge, charges, mustCode(t, "4321"), t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Nil(t, j.CashCollection())
		assert.Empty(t, j.PullEvents())
	})

	t.Run("nil base falls back to payable amount", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)

		total, err := j.InitiateCashCollection(nil, nil, mustCode(t, "4321"), t0)

		require.NoError(t, err)
		assert.Equal(t, j.PayableAmount(), total)
	})

	t.Run("confirm with matching code and amount completes", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		total, _ := j.InitiateCashCollection(&base, gas(t), mustCode(t, "4321"), t0)

		require.NoError(t, j.ConfirmCashCollection(mustCode(t, "4321"), total, gas(t), t0.Add(time.Minute)))

		assert.Equal(t, job.Completed, j.Status())
		assert.True(t, j.CashCollected())
		assert.True(t, j.CashCollection().IsConfirmed())
		assert.Equal(t, t0.Add(time.Minute), *j.CompletedAt())
	})

	t.Run("amount mismatch carries both sides", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		_, _ = j.InitiateCashCollection(&base, gas(t), mustCode(t, "4321"), t0)

		err := j.ConfirmCashCollection(mustCode(t, "4321"), 120_000, gas(t), t0)

		var ame *job.AmountMismatchError
		require.ErrorAs(t, err, &ame)
		assert.Equal(t, int64(130_000), ame.Expected)
		assert.Equal(t, int64(120_000), ame.Actual)
		assert.False(t, j.CashCollected())
		assert.Equal(t, job.WorkDone, j.Status())
	})

	t.Run("items that do not add up are rejected", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		total, _ := j.InitiateCashCollection(&base, gas(t), mustCode(t, "4321"), t0)

		err := j.ConfirmCashCollection(mustCode(t, "4321"), total, nil, t0)

		require.ErrorIs(t, err, job.ErrAmountMismatch)
	})

	t.Run("re-initiation supersedes the previous code", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		_, _ = j.InitiateCashCollection(&base, nil, mustCode(t, "1000"), t0)
		total, err := j.InitiateCashCollection(&base, gas(t), mustCode(t, "2000"), t0.Add(time.Minute))
		require.NoError(t, err)

		require.ErrorIs(t, j.ConfirmCashCollection(mustCode(t, "1000"), total, gas(t), t0), job.ErrStaleInitiation)
		require.ErrorIs(t, j.ConfirmCashCollection(mustCode(t, "3000"), total, gas(t), t0), job.ErrCodeMismatch)
		require.NoError(t, j.ConfirmCashCollection(mustCode(t, "2000"), total, gas(t), t0))
		assert.Len(t, j.CashCollection().Superseded(), 1)
	})

	t.Run("code is checked before amount", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		_, _ = j.InitiateCashCollection(&base, nil, mustCode(t, "1000"), t0)

		require.ErrorIs(t, j.ConfirmCashCollection(mustCode(t, "9999"), 1, nil, t0), job.ErrCodeMismatch)
	})

	t.Run("confirm without initiation", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)

		err := j.ConfirmCashCollection(mustCode(t, "1000"), 50_000, nil, t0)

		require.ErrorIs(t, err, job.ErrCollectionNotInitiated)
		require.ErrorIs(t, err, job.ErrPreconditionFailed)
	})

	t.Run("non-cash jobs cannot collect cash", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.WorkDone)

		_, err := j.InitiateCashCollection(&base, nil, mustCode(t, "1000"), t0)

		require.ErrorIs(t, err, job.ErrPaymentModeNotCash)
	})

	t.Run("initiation outside work done is an invalid transition", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.Visited)

		_, err := j.InitiateCashCollection(&base, nil, mustCode(t, "1000"), t0)

		require.ErrorIs(t, err, job.ErrInvalidTransition)
	})
}

func TestJob_Settlement(t *testing.T) {
	t.Run("settlement before payout is refused", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.Completed)

		err := j.ConfirmFinalSettlement(t0)

		require.ErrorIs(t, err, job.ErrPayoutNotConfirmed)
		require.ErrorIs(t, err, job.ErrPreconditionFailed)
		assert.Equal(t, job.SettlementOpen, j.FinalSettlement())
		assert.Equal(t, job.Completed, j.Status())
	})

	t.Run("payout then settlement closes the job", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.Completed)

		require.NoError(t, j.RequestPayout(t0))
		require.NotNil(t, j.Snapshot().PayoutRequestedAt)
		require.NoError(t, j.ConfirmPayout("UTR-77", t0))
		require.ErrorIs(t, j.RequestPayout(t0), job.ErrWorkerAlreadyPaid)
		require.NoError(t, j.ConfirmFinalSettlement(t0.Add(time.Minute)))

		assert.Equal(t, job.Closed, j.Status())
		assert.Equal(t, job.SettlementDone, j.FinalSettlement())
		assert.Equal(t, job.WorkerPaymentPaid, j.WorkerPayment())
		assert.Equal(t, "UTR-77", j.Snapshot().PayoutReference)
		assert.True(t, j.IsImmutable())
	})

	t.Run("settled job is immutable", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.Closed)
		before := j.Snapshot()

		for name, op := range map[string]func() error{
			"cancel":  func() error { return j.Cancel("x", t0) },
			"settle":  func() error { return j.ConfirmFinalSettlement(t0) },
			"payout":  func() error { return j.ConfirmPayout("y", t0) },
			"request": func() error { return j.RequestPayout(t0) },
			"verify":  func() error { return j.VerifyVisit(mustCode(t, "1111"), nil, t0) },
			"submit":  func() error { return j.SubmitWork([]string{"a"}, t0) },
		} {
			require.ErrorIs(t, op(), job.ErrJobIsImmutable, name)
		}
		assert.Equal(t, before, j.Snapshot())
	})

	t.Run("payout needs a completed job", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)

		require.ErrorIs(t, j.RequestPayout(t0), job.ErrInvalidTransition)
		require.ErrorIs(t, j.ConfirmPayout("r", t0), job.ErrInvalidTransition)
	})
}

func TestJob_Cancel(t *testing.T) {
	for _, target := range []job.Status{job.PendingResponse, job.Accepted, job.JourneyStarted, job.Visited, job.WorkDone} {
		t.Run("from "+target.String(), func(t *testing.T) {
			j := newJob(t, job.PaymentModeCash)
			advance(t, j, target)

			require.NoError(t, j.Cancel(" customer unavailable ", t0.Add(time.Hour)))

			assert.Equal(t, job.Cancelled, j.Status())
			assert.Equal(t, t0.Add(time.Hour), *j.CancelledAt())
			assert.Equal(t, "customer unavailable", j.Snapshot().CancellationReason)
			require.ErrorIs(t, j.Cancel("again", t0), job.ErrInvalidTransition)
		})
	}
}

func TestJob_Events(t *testing.T) {
	j := newJob(t, job.PaymentModeCash)
	_ = j.PullEvents()

	require.NoError(t, j.Accept(t0))
	require.NoError(t, j.StartJourney(mustCode(t, "1234"), t0))

	events := j.PullEvents()
	require.Len(t, events, 3)
	assert.Equal(t, job.EventStatusChanged, events[0].Kind)
	assert.Equal(t, job.PendingResponse, events[0].From)
	assert.Equal(t, job.Accepted, events[0].To)
	assert.Equal(t, job.EventStatusChanged, events[1].Kind)
	assert.Equal(t, job.JourneyStarted, events[1].To)
	assert.Equal(t, job.EventVisitCodeIssued, events[2].Kind)
	assert.True(t, events[0].JobID.IsEqual(j.ID()))
	assert.True(t, events[0].WorkerID.IsEqual(j.WorkerID()))
}

// Any sequence of actions leaves the job on the forward path or at an exit,
// never behind a status it already reached, and each timestamp is set once.
func TestJob_ForwardOnlyUnderRandomActions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	codes := []string{"1111", "2222", "9999"}

	for run := 0; run < 200; run++ {
		mode := []job.PaymentMode{job.PaymentModeCash, job.PaymentModeOnline}[rng.Intn(2)]
		j := newJob(t, mode)
		highest := j.Status()
		stamps := map[string]time.Time{}
		at := t0

		for step := 0; step < 30; step++ {
			at = at.Add(time.Minute)
			code := mustCode(t, codes[rng.Intn(len(codes))])
			switch rng.Intn(11) {
			case 0:
				_ = j.Accept(at)
			case 1:
				_ = j.Reject(at)
			case 2:
				_ = j.StartJourney(mustCode(t, "1111"), at)
			case 3:
				_ = j.VerifyVisit(code, nil, at)
			case 4:
				_ = j.SubmitWork([]string{"e"}, at)
			case 5:
				_ = j.Complete(at)
			case 6:
				_, _ = j.InitiateCashCollection(nil, nil, mustCode(t, "2222"), at)
			case 7:
				_ = j.ConfirmCashCollection(code, j.PayableAmount(), nil, at)
			case 8:
				_ = j.ConfirmPayout("r", at)
			case 9:
				_ = j.ConfirmFinalSettlement(at)
			case 10:
				if rng.Intn(5) == 0 {
					_ = j.Cancel("", at)
				}
			}

			s := j.Status()
			if s.IsExit() {
				assert.True(t, highest.CanTransitionTo(s) || highest == s, "%s -> %s", highest, s)
			} else {
				assert.GreaterOrEqual(t, int(s), int(highest), "went backward from %s to %s", highest, s)
			}
			highest = s

			snap := j.Snapshot()
			for name, ts := range map[string]*time.Time{
				"journey": snap.JourneyStartedAt, "visited": snap.VisitedAt, "workDone": snap.WorkDoneAt,
				"completed": snap.CompletedAt, "closed": snap.ClosedAt, "cancelled": snap.CancelledAt,
			} {
				if ts == nil {
					continue
				}
				if prev, ok := stamps[name]; ok {
					assert.Equal(t, prev, *ts, "%s timestamp changed", name)
				}
				stamps[name] = *ts
			}

			if snap.CashCollected {
				assert.Equal(t, job.PaymentModeCash, snap.PaymentMode)
			}
			if snap.FinalSettlementStatus == job.SettlementDone {
				assert.Equal(t, job.WorkerPaymentPaid, snap.WorkerPaymentStatus)
				assert.Equal(t, job.Closed, snap.Status)
			}
		}
	}
}

func TestRestoreJob(t *testing.T) {
	t.Run("round trips through snapshot", func(t *testing.T) {
		j := newJob(t, job.PaymentModeCash)
		advance(t, j, job.WorkDone)
		_, err := j.InitiateCashCollection(nil, []job.ExtraCharge{mustCharge(t, "Pipe", 100, 2)}, mustCode(t, "4444"), t0)
		require.NoError(t, err)

		restored, err := job.RestoreJob(j.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, j.Snapshot(), restored.Snapshot())
		assert.Empty(t, restored.PullEvents())
	})

	t.Run("rejects settled job with pending payout", func(t *testing.T) {
		j := newJob(t, job.PaymentModeOnline)
		advance(t, j, job.Closed)
		s := j.Snapshot()
		s.WorkerPaymentStatus = job.WorkerPaymentUnpaid

		_, err := job.RestoreJob(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "settled while worker payment")
	})

	t.Run("rejects cash collected on online job", func(t *testing.T) {
		s := newJob(t, job.PaymentModeOnline).Snapshot()
		s.CashCollected = true

		_, err := job.RestoreJob(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		s := newJob(t, job.PaymentModeOnline).Snapshot()
		s.Status = job.Unknown

		_, err := job.RestoreJob(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
