package http

import (
	"errors"
	"net/http"
	"strings"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers  Handlers
	positions PositionIngest
	tracker   ForceEmitter
	stream    EventStream
	attempts  *AttemptLimiter
}

// NewServer creates a new HTTP server with the required use cases.
func NewServer(
	handlers Handlers,
	positions PositionIngest,
	tracker ForceEmitter,
	stream EventStream,
	attempts *AttemptLimiter,
) *Server {
	if attempts == nil {
		attempts = NewAttemptLimiter(DefaultCodeAttemptsEvery, DefaultCodeAttemptsBurst)
	}
	return &Server{
		handlers:  handlers,
		positions: positions,
		tracker:   tracker,
		stream:    stream,
		attempts:  attempts,
	}
}

// bind decodes and validates the request body into dst.
func bind(ctx echo.Context, dst any) error {
	if err := ctx.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return ctx.Validate(dst)
}

func (s *Server) respondSnapshot(ctx echo.Context, status int, snapshot job.Snapshot, err error) error {
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(status, fromSnapshot(snapshot))
}

// CreateJob handles POST /api/v1/jobs.
func (s *Server) CreateJob(ctx echo.Context) error {
	var body servers.NewJob
	if err := bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}

	jobID := kernel.NewUUID()
	if body.Id != nil {
		id, err := toKernelUUID(*body.Id)
		if err != nil {
			return respondError(ctx, err)
		}
		jobID = id
	}
	workerID, err := toKernelUUID(body.WorkerId)
	if err != nil {
		return respondError(ctx, err)
	}
	mode, err := job.ParsePaymentMode(body.PaymentMode)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCreateJobCommand(jobID, job.Booking{
		WorkerID:       workerID,
		ScheduledAt:    body.ScheduledAt,
		PaymentMode:    mode,
		BaseAmount:     body.BaseAmount,
		TaxAmount:      valueOr(body.TaxAmount, 0),
		FeeAmount:      valueOr(body.FeeAmount, 0),
		DiscountAmount: valueOr(body.DiscountAmount, 0),
	})
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.CreateJob.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusCreated, snapshot, err)
}

// GetJob handles GET /api/v1/jobs/{jobId}.
func (s *Server) GetJob(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	query, err := queries.NewGetJobQuery(id)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.handlers.GetJob.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fromJobView(view))
}

// GetWorkerJobs handles GET /api/v1/workers/{workerId}/jobs.
func (s *Server) GetWorkerJobs(ctx echo.Context, workerId openapi_types.UUID, params servers.GetWorkerJobsParams) error {
	id, err := toKernelUUID(workerId)
	if err != nil {
		return respondError(ctx, err)
	}
	var statuses []job.Status
	if params.Status != nil {
		status, parseErr := job.ParseStatus(strings.ToUpper(*params.Status))
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}
		statuses = append(statuses, status)
	}
	query, err := queries.NewGetWorkerActiveJobsQuery(id, statuses...)
	if err != nil {
		return respondError(ctx, err)
	}

	jobs, err := s.handlers.GetWorkerJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fromJobSummaries(jobs))
}

// AttemptTransition handles POST /api/v1/jobs/{jobId}/transitions.
func (s *Server) AttemptTransition(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.TransitionRequest
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}

	action := job.Action(strings.ToUpper(body.Action))
	if action == job.ActionVerifyVisit && !s.attempts.Allow(id) {
		return respondError(ctx, ErrTooManyAttempts)
	}
	position, err := toOptionalPositionSample(body.Position)
	if err != nil {
		return respondError(ctx, err)
	}

	request := commands.TransitionRequest{
		Action:   action,
		Code:     valueOr(body.Code, ""),
		Position: position,
		Reason:   valueOr(body.Reason, ""),
	}
	if body.Evidence != nil {
		request.Evidence = *body.Evidence
	}
	cmd, err := commands.NewAttemptTransitionCommand(id, request)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.AttemptTransition.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// VerifyVisit handles POST /api/v1/jobs/{jobId}/visit.
func (s *Server) VerifyVisit(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.VisitRequest
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}
	if !s.attempts.Allow(id) {
		return respondError(ctx, ErrTooManyAttempts)
	}
	position, err := toOptionalPositionSample(body.Position)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewVerifyVisitCommand(id, body.Code, position)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.VerifyVisit.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// ResendVisitCode handles POST /api/v1/jobs/{jobId}/visit-code/resend.
func (s *Server) ResendVisitCode(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewResendVisitCodeCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.ResendVisitCode.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// InitiateCashCollection handles POST /api/v1/jobs/{jobId}/cash-collection.
func (s *Server) InitiateCashCollection(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.InitiateCashCollection
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}
	charges, err := toExtraCharges(body.ExtraCharges)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewInitiateCashCollectionCommand(id, body.BaseAmount, charges)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.handlers.InitiateCashCollection.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.CashCollectionInitiated{
		TotalDue: result.TotalDue,
		Job:      fromSnapshot(result.Job),
	})
}

// ConfirmCashCollection handles POST /api/v1/jobs/{jobId}/cash-collection/confirm.
func (s *Server) ConfirmCashCollection(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.ConfirmCashCollection
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}
	if !s.attempts.Allow(id) {
		return respondError(ctx, ErrTooManyAttempts)
	}
	charges, err := toExtraCharges(body.ExtraCharges)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewConfirmCashCollectionCommand(id, body.Code, body.TotalAmount, charges)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.ConfirmCashCollection.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// RequestPayout handles POST /api/v1/jobs/{jobId}/payout. A payer that could
// not be reached still leaves the request recorded: 202 with delivered=false.
func (s *Server) RequestPayout(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewRequestPayoutCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.RequestPayout.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, commands.ErrPayoutNotDelivered):
		return ctx.JSON(http.StatusAccepted, servers.PayoutRequested{Delivered: false, Job: fromSnapshot(snapshot)})
	case err != nil:
		return respondError(ctx, err)
	default:
		return ctx.JSON(http.StatusOK, servers.PayoutRequested{Delivered: true, Job: fromSnapshot(snapshot)})
	}
}

// ConfirmPayout handles POST /api/v1/jobs/{jobId}/payout/confirm.
func (s *Server) ConfirmPayout(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.ConfirmPayout
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewConfirmPayoutCommand(id, valueOr(body.Reference, ""))
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.ConfirmPayout.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// ConfirmFinalSettlement handles POST /api/v1/jobs/{jobId}/settlement.
func (s *Server) ConfirmFinalSettlement(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewConfirmFinalSettlementCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.ConfirmFinalSettlement.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// CancelJob handles POST /api/v1/jobs/{jobId}/cancel.
func (s *Server) CancelJob(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.CancelJob
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAttemptTransitionCommand(id, commands.TransitionRequest{
		Action: job.ActionCancel,
		Reason: valueOr(body.Reason, ""),
	})
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.AttemptTransition.Handle(ctx.Request().Context(), cmd)
	return s.respondSnapshot(ctx, http.StatusOK, snapshot, err)
}

// ReportPosition handles POST /api/v1/jobs/{jobId}/positions.
func (s *Server) ReportPosition(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.Position
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}
	sample, err := toPositionSample(body)
	if err != nil {
		return respondError(ctx, err)
	}

	s.positions.Push(id, sample)
	return ctx.NoContent(http.StatusAccepted)
}

// ReportPositionError handles POST /api/v1/jobs/{jobId}/positions/errors.
func (s *Server) ReportPositionError(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}
	var body servers.PositionErrorReport
	if err = bind(ctx, &body); err != nil {
		return respondError(ctx, err)
	}

	s.positions.PushError(id, ports.NewPositionError(
		ports.ParsePositionErrorCause(body.Cause),
		valueOr(body.Message, ""),
	))
	return ctx.NoContent(http.StatusAccepted)
}

// ForceEmitPosition handles POST /api/v1/jobs/{jobId}/positions/force.
func (s *Server) ForceEmitPosition(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.tracker.ForceEmit(ctx.Request().Context(), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// StreamJobEvents handles GET /api/v1/jobs/{jobId}/stream.
func (s *Server) StreamJobEvents(ctx echo.Context, jobId openapi_types.UUID) error {
	id, err := toKernelUUID(jobId)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.stream.ServeWebSocket(ctx.Response(), ctx.Request(), id); err != nil && !ctx.Response().Committed {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
	}
	return nil
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
