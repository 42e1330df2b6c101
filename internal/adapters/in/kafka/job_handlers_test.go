package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fieldservice/internal/adapters/in/kafka"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobCreator struct {
	mock.Mock
}

func (m *MockJobCreator) Handle(ctx context.Context, cmd commands.CreateJobCommand) (job.Snapshot, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(job.Snapshot), args.Error(1)
}

type MockJobTransitioner struct {
	mock.Mock
}

func (m *MockJobTransitioner) Handle(ctx context.Context, cmd commands.AttemptTransitionCommand) (job.Snapshot, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(job.Snapshot), args.Error(1)
}

func TestJobAssignedHandler(t *testing.T) {
	jobID := kernel.NewUUID()
	workerID := kernel.NewUUID()
	value := fmt.Sprintf(`{"jobId":%q,"workerId":%q,"scheduledAt":"2026-03-01T09:00:00Z",
		"paymentMode":"CASH","baseAmount":500,"taxAmount":50}`, jobID.String(), workerID.String())

	t.Run("creates the job", func(t *testing.T) {
		creator := &MockJobCreator{}
		creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateJobCommand) bool {
			b := cmd.Booking()
			return cmd.JobID() == jobID &&
				b.WorkerID == workerID &&
				b.PaymentMode == job.PaymentModeCash &&
				b.BaseAmount == 500 &&
				b.TaxAmount == 50 &&
				b.ScheduledAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		})).Return(job.Snapshot{}, nil).Once()

		err := kafka.NewJobAssignedHandler(creator, discardLogger()).
			HandleMessage(t.Context(), kafkago.Message{Value: []byte(value)})

		require.NoError(t, err)
		creator.AssertExpectations(t)
	})

	t.Run("redelivery is acknowledged", func(t *testing.T) {
		creator := &MockJobCreator{}
		creator.On("Handle", mock.Anything, mock.Anything).Return(job.Snapshot{}, commands.ErrJobAlreadyExists)

		err := kafka.NewJobAssignedHandler(creator, discardLogger()).
			HandleMessage(t.Context(), kafkago.Message{Value: []byte(value)})

		require.NoError(t, err)
	})

	t.Run("invalid payloads are rejected before the use case", func(t *testing.T) {
		creator := &MockJobCreator{}
		handler := kafka.NewJobAssignedHandler(creator, discardLogger())

		for _, bad := range []string{
			`not json`,
			`{"jobId":"nope","workerId":"` + workerID.String() + `","paymentMode":"CASH"}`,
			`{"jobId":"` + jobID.String() + `","workerId":"` + workerID.String() + `","paymentMode":"BARTER"}`,
		} {
			assert.Error(t, handler.HandleMessage(t.Context(), kafkago.Message{Value: []byte(bad)}), bad)
		}
		creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestJobCancelledHandler(t *testing.T) {
	jobID := kernel.NewUUID()
	msg := kafkago.Message{Value: []byte(`{"jobId":"` + jobID.String() + `","reason":"customer request"}`)}

	t.Run("attempts a cancel transition", func(t *testing.T) {
		transitioner := &MockJobTransitioner{}
		transitioner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AttemptTransitionCommand) bool {
			return cmd.JobID() == jobID &&
				cmd.Request().Action == job.ActionCancel &&
				cmd.Request().Reason == "customer request"
		})).Return(job.Snapshot{}, nil).Once()

		require.NoError(t, kafka.NewJobCancelledHandler(transitioner, discardLogger()).HandleMessage(t.Context(), msg))
		transitioner.AssertExpectations(t)
	})

	t.Run("finished jobs are ignored", func(t *testing.T) {
		transitioner := &MockJobTransitioner{}
		transitioner.On("Handle", mock.Anything, mock.Anything).
			Return(job.Snapshot{}, job.NewTransitionError(job.Closed, job.ActionCancel))

		require.NoError(t, kafka.NewJobCancelledHandler(transitioner, discardLogger()).HandleMessage(t.Context(), msg))
	})

	t.Run("other failures are returned", func(t *testing.T) {
		transitioner := &MockJobTransitioner{}
		boom := errors.New("db down")
		transitioner.On("Handle", mock.Anything, mock.Anything).Return(job.Snapshot{}, boom)

		err := kafka.NewJobCancelledHandler(transitioner, discardLogger()).HandleMessage(t.Context(), msg)

		require.ErrorIs(t, err, boom)
	})
}
