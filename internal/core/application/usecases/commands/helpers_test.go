package commands_test

import (
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustCode(t *testing.T, v string) job.OneTimeCode {
	t.Helper()
	c, err := job.NewOneTimeCode(v)
	require.NoError(t, err)
	return c
}

// jobAt builds a job and walks it to target. The visit code is "1111" and the
// cash code "2222".
func jobAt(t *testing.T, target job.Status, mode job.PaymentMode) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), job.Booking{
		WorkerID:    kernel.NewUUID(),
		ScheduledAt: t0,
		PaymentMode: mode,
		BaseAmount:  500,
	}, t0)
	require.NoError(t, err)

	for j.Status() != target {
		switch j.Status() {
		case job.PendingResponse:
			err = j.Accept(t0)
		case job.Accepted:
			err = j.StartJourney(mustCode(t, "1111"), t0)
		case job.JourneyStarted:
			err = j.VerifyVisit(mustCode(t, "1111"), nil, t0)
		case job.Visited:
			err = j.SubmitWork([]string{"photo.jpg"}, t0)
		case job.WorkDone:
			if mode == job.PaymentModeCash {
				total, initErr := j.InitiateCashCollection(nil, nil, mustCode(t, "2222"), t0)
				require.NoError(t, initErr)
				err = j.ConfirmCashCollection(mustCode(t, "2222"), total, nil, t0)
			} else {
				err = j.Complete(t0)
			}
		case job.Completed:
			require.NoError(t, j.ConfirmPayout("ref", t0))
			err = j.ConfirmFinalSettlement(t0)
		default:
			t.Fatalf("cannot reach %s", target)
		}
		require.NoError(t, err)
	}
	_ = j.PullEvents()
	return j
}
