package http

import (
	"context"
	"net/http"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
)

// UseCase is any command or query handler returning a result.
type UseCase[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// UseCaseFunc adapts a function to UseCase.
type UseCaseFunc[C, R any] func(ctx context.Context, cmd C) (R, error)

func (f UseCaseFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Action is a command handler without a result.
type Action[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Handlers are the use cases exposed over HTTP.
type Handlers struct {
	CreateJob              UseCase[commands.CreateJobCommand, job.Snapshot]
	AttemptTransition      UseCase[commands.AttemptTransitionCommand, job.Snapshot]
	VerifyVisit            UseCase[commands.VerifyVisitCommand, job.Snapshot]
	ResendVisitCode        Action[commands.ResendVisitCodeCommand]
	InitiateCashCollection UseCase[commands.InitiateCashCollectionCommand, commands.InitiateCashCollectionResult]
	ConfirmCashCollection  UseCase[commands.ConfirmCashCollectionCommand, job.Snapshot]
	RequestPayout          UseCase[commands.RequestPayoutCommand, job.Snapshot]
	ConfirmPayout          UseCase[commands.ConfirmPayoutCommand, job.Snapshot]
	ConfirmFinalSettlement UseCase[commands.ConfirmFinalSettlementCommand, job.Snapshot]

	GetJob        UseCase[queries.GetJobQuery, queries.GetJobQueryResponse]
	GetWorkerJobs UseCase[queries.GetWorkerActiveJobsQuery, []queries.GetWorkerActiveJobsQueryResponse]
}

// PositionIngest receives raw device reports.
type PositionIngest interface {
	Push(jobID kernel.UUID, sample kernel.PositionSample)
	PushError(jobID kernel.UUID, err *ports.PositionError)
}

// ForceEmitter forwards the latest position of a travelling job at once.
type ForceEmitter interface {
	ForceEmit(ctx context.Context, jobID kernel.UUID) error
}

// EventStream serves the realtime events of a job over a websocket.
type EventStream interface {
	ServeWebSocket(w http.ResponseWriter, r *http.Request, jobID kernel.UUID) error
}
