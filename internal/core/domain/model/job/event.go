package job

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
)

// EventKind classifies what happened to a job.
type EventKind string

const (
	EventCreated                 EventKind = "job.created"
	EventStatusChanged           EventKind = "job.status_changed"
	EventVisitCodeIssued         EventKind = "job.visit_code_issued"
	EventCashCollectionInitiated EventKind = "job.cash_collection_initiated"
	EventPayoutRequested         EventKind = "job.payout_requested"
	EventWorkerPaid              EventKind = "job.worker_paid"
)

// Event is a fact recorded by the Job aggregate while it mutates. Events are
// pulled by the unit of work and published only after a successful commit.
type Event struct {
	JobID      kernel.UUID
	WorkerID   kernel.UUID
	Kind       EventKind
	Action     Action
	From       Status
	To         Status
	OccurredAt time.Time
}

// IsStatusChange reports whether the event moved the job to another status.
func (e Event) IsStatusChange() bool {
	return e.Kind == EventStatusChanged || e.Kind == EventCreated
}
