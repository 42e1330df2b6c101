package queries_test

import (
	"testing"

	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetJobQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetJobQuery(id)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, id, query.JobID())

	_, err = queries.NewGetJobQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewGetWorkerActiveJobsQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetWorkerActiveJobsQuery(id)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, id, query.WorkerID())

	assert.Empty(t, query.Statuses())

	var zero queries.GetWorkerActiveJobsQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrGetWorkerActiveJobsQueryIsNotConstructed)

	filtered, err := queries.NewGetWorkerActiveJobsQuery(id, job.Accepted, job.JourneyStarted)
	require.NoError(t, err)
	assert.Equal(t, []job.Status{job.Accepted, job.JourneyStarted}, filtered.Statuses())

	_, err = queries.NewGetWorkerActiveJobsQuery(id, job.Unknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
