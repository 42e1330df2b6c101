package commands_test

import (
	"errors"
	"testing"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResendVisitCodeCommandHandler(t *testing.T) {
	setup := func(t *testing.T, status job.Status) (*job.Job, *MockCodeSender, commands.ResendVisitCodeCommandHandler) {
		store := newMemoryStore()
		sender := &MockCodeSender{}
		aggregate := jobAt(t, status, job.PaymentModeCash)
		require.NoError(t, store.JobRepository().Add(t.Context(), aggregate))
		return aggregate, sender, commands.NewResendVisitCodeCommandHandler(store, sender)
	}

	t.Run("sends the same visit code again", func(t *testing.T) {
		aggregate, sender, handler := setup(t, job.JourneyStarted)
		sender.On("SendCode", mock.Anything, mock.MatchedBy(func(d ports.CodeDelivery) bool {
			return d.JobID == aggregate.ID() && d.Purpose == ports.CodePurposeVisit && d.Code.Value() == "1111"
		})).Return(nil).Twice()
		cmd, _ := commands.NewResendVisitCodeCommand(aggregate.ID())

		require.NoError(t, handler.Handle(t.Context(), cmd))
		require.NoError(t, handler.Handle(t.Context(), cmd))

		sender.AssertExpectations(t)
	})

	t.Run("only while travelling", func(t *testing.T) {
		aggregate, sender, handler := setup(t, job.Visited)
		cmd, _ := commands.NewResendVisitCodeCommand(aggregate.ID())

		err := handler.Handle(t.Context(), cmd)

		var transitionErr *job.TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, job.ActionResendVisitCode, transitionErr.Action)
		sender.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything)
	})

	t.Run("sender failure", func(t *testing.T) {
		aggregate, sender, handler := setup(t, job.JourneyStarted)
		sender.On("SendCode", mock.Anything, mock.Anything).Return(errors.New("sms gateway")).Once()
		cmd, _ := commands.NewResendVisitCodeCommand(aggregate.ID())

		err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrCodeNotDelivered)
	})
}
