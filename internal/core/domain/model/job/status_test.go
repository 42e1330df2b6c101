package job_test

import (
	"fmt"
	"testing"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []job.Status {
	return []job.Status{
		job.PendingResponse, job.Accepted, job.JourneyStarted, job.Visited,
		job.WorkDone, job.Completed, job.Closed, job.Rejected, job.Cancelled,
	}
}

func TestStatus_Constants(t *testing.T) {
	t.Run("forward path is ordered", func(t *testing.T) {
		forward := []job.Status{
			job.PendingResponse, job.Accepted, job.JourneyStarted, job.Visited,
			job.WorkDone, job.Completed, job.Closed,
		}
		for i := 1; i < len(forward); i++ {
			assert.Less(t, int(forward[i-1]), int(forward[i]))
		}
		assert.Equal(t, 0, int(job.Unknown))
	})

	t.Run("should have wire names", func(t *testing.T) {
		assert.Equal(t, "PENDING_RESPONSE", job.PendingResponse.String())
		assert.Equal(t, "JOURNEY_STARTED", job.JourneyStarted.String())
		assert.Equal(t, "WORK_DONE", job.WorkDone.String())
		assert.Equal(t, "UNKNOWN", job.Status(42).String())
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		t.Run(fmt.Sprintf("should validate %s", s), func(t *testing.T) {
			require.NoError(t, s.Validate())
		})
	}

	for _, s := range []job.Status{job.Unknown, job.Status(-1), job.Status(10)} {
		t.Run(fmt.Sprintf("should reject %d", int(s)), func(t *testing.T) {
			err := s.Validate()

			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			assert.Contains(t, err.Error(), "status is invalid")
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses() {
		parsed, err := job.ParseStatus(s.String())

		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := job.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = job.ParseStatus("in_progress")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Classification(t *testing.T) {
	assert.ElementsMatch(t, []job.Status{job.JourneyStarted, job.Visited}, job.TravelEligibleStatuses())
	assert.ElementsMatch(t, []job.Status{job.Closed, job.Rejected, job.Cancelled}, job.TerminalStatuses())

	for _, s := range allStatuses() {
		assert.Equal(t, s == job.JourneyStarted || s == job.Visited, s.IsTravelEligible(), s.String())
		assert.Equal(t, s == job.Closed || s == job.Rejected || s == job.Cancelled, s.IsTerminal(), s.String())
	}
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		from   job.Status
		apply  func(job.Status) (job.Status, error)
		want   job.Status
		action job.Action
	}{
		{"accept", job.PendingResponse, job.Status.Accept, job.Accepted, job.ActionAccept},
		{"reject", job.PendingResponse, job.Status.Reject, job.Rejected, job.ActionReject},
		{"start journey", job.Accepted, job.Status.StartJourney, job.JourneyStarted, job.ActionStartJourney},
		{"visit", job.JourneyStarted, job.Status.Visit, job.Visited, job.ActionVerifyVisit},
		{"submit work", job.Visited, job.Status.SubmitWork, job.WorkDone, job.ActionSubmitWork},
		{"complete", job.WorkDone, job.Status.Complete, job.Completed, job.ActionComplete},
		{"close", job.Completed, job.Status.Close, job.Closed, job.ActionConfirmSettlement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.apply(tt.from)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			for _, other := range allStatuses() {
				if other == tt.from {
					continue
				}
				_, err := tt.apply(other)
				require.ErrorIs(t, err, job.ErrInvalidTransition, "from %s", other)

				var te *job.TransitionError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, other, te.From)
				assert.Equal(t, tt.action, te.Action)
			}
		})
	}

	t.Run("cancel from every non-terminal status", func(t *testing.T) {
		for _, s := range allStatuses() {
			got, err := s.Cancel()
			if s.IsTerminal() {
				require.ErrorIs(t, err, job.ErrInvalidTransition, s.String())
				continue
			}
			require.NoError(t, err, s.String())
			assert.Equal(t, job.Cancelled, got)
		}
	})

	t.Run("terminal statuses have no successors", func(t *testing.T) {
		for _, from := range job.TerminalStatuses() {
			for _, to := range allStatuses() {
				assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})
}

func TestStatus_HasReached(t *testing.T) {
	assert.True(t, job.Completed.HasReached(job.Visited))
	assert.True(t, job.Closed.HasReached(job.Completed))
	assert.False(t, job.Accepted.HasReached(job.Visited))
	assert.False(t, job.Cancelled.HasReached(job.Visited))
	assert.True(t, job.Cancelled.HasReached(job.Cancelled))
}

func TestParseTransitionAction(t *testing.T) {
	for _, name := range []string{"ACCEPT", "REJECT", "START_JOURNEY", "VERIFY_VISIT", "SUBMIT_WORK", "COMPLETE", "CANCEL"} {
		a, err := job.ParseTransitionAction(name)

		require.NoError(t, err)
		assert.Equal(t, name, a.String())
	}

	_, err := job.ParseTransitionAction("CONFIRM_PAYOUT")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
