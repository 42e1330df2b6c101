package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register a job assigned to a worker
	// (POST /api/v1/jobs)
	CreateJob(ctx echo.Context) error

	// (GET /api/v1/jobs/{jobId})
	GetJob(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/cancel)
	CancelJob(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/cash-collection)
	InitiateCashCollection(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/cash-collection/confirm)
	ConfirmCashCollection(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/payout)
	RequestPayout(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/payout/confirm)
	ConfirmPayout(ctx echo.Context, jobId openapi_types.UUID) error

	// Raw device position of the worker
	// (POST /api/v1/jobs/{jobId}/positions)
	ReportPosition(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/positions/errors)
	ReportPositionError(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/positions/force)
	ForceEmitPosition(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/settlement)
	ConfirmFinalSettlement(ctx echo.Context, jobId openapi_types.UUID) error

	// Websocket of location.update, telemetry.error and job.changed events
	// (GET /api/v1/jobs/{jobId}/stream)
	StreamJobEvents(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/transitions)
	AttemptTransition(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/visit)
	VerifyVisit(ctx echo.Context, jobId openapi_types.UUID) error

	// (POST /api/v1/jobs/{jobId}/visit-code/resend)
	ResendVisitCode(ctx echo.Context, jobId openapi_types.UUID) error

	// Non-terminal jobs of a worker
	// (GET /api/v1/workers/{workerId}/jobs)
	GetWorkerJobs(ctx echo.Context, workerId openapi_types.UUID, params GetWorkerJobsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUIDPath(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// jobRoute adapts a handler taking the jobId path parameter.
func (w *ServerInterfaceWrapper) jobRoute(handler func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		jobId, err := bindUUIDPath(ctx, "jobId")
		if err != nil {
			return err
		}
		return handler(ctx, jobId)
	}
}

// CreateJob converts echo context to params.
func (w *ServerInterfaceWrapper) CreateJob(ctx echo.Context) error {
	return w.Handler.CreateJob(ctx)
}

// GetWorkerJobs converts echo context to params.
func (w *ServerInterfaceWrapper) GetWorkerJobs(ctx echo.Context) error {
	workerId, err := bindUUIDPath(ctx, "workerId")
	if err != nil {
		return err
	}

	var params GetWorkerJobsParams
	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.GetWorkerJobs(ctx, workerId, params)
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/jobs", w.CreateJob)
	router.GET(baseURL+"/api/v1/jobs/:jobId", w.jobRoute(si.GetJob))
	router.POST(baseURL+"/api/v1/jobs/:jobId/cancel", w.jobRoute(si.CancelJob))
	router.POST(baseURL+"/api/v1/jobs/:jobId/cash-collection", w.jobRoute(si.InitiateCashCollection))
	router.POST(baseURL+"/api/v1/jobs/:jobId/cash-collection/confirm", w.jobRoute(si.ConfirmCashCollection))
	router.POST(baseURL+"/api/v1/jobs/:jobId/payout", w.jobRoute(si.RequestPayout))
	router.POST(baseURL+"/api/v1/jobs/:jobId/payout/confirm", w.jobRoute(si.ConfirmPayout))
	router.POST(baseURL+"/api/v1/jobs/:jobId/positions", w.jobRoute(si.ReportPosition))
	router.POST(baseURL+"/api/v1/jobs/:jobId/positions/errors", w.jobRoute(si.ReportPositionError))
	router.POST(baseURL+"/api/v1/jobs/:jobId/positions/force", w.jobRoute(si.ForceEmitPosition))
	router.POST(baseURL+"/api/v1/jobs/:jobId/settlement", w.jobRoute(si.ConfirmFinalSettlement))
	router.GET(baseURL+"/api/v1/jobs/:jobId/stream", w.jobRoute(si.StreamJobEvents))
	router.POST(baseURL+"/api/v1/jobs/:jobId/transitions", w.jobRoute(si.AttemptTransition))
	router.POST(baseURL+"/api/v1/jobs/:jobId/visit", w.jobRoute(si.VerifyVisit))
	router.POST(baseURL+"/api/v1/jobs/:jobId/visit-code/resend", w.jobRoute(si.ResendVisitCode))
	router.GET(baseURL+"/api/v1/workers/:workerId/jobs", w.GetWorkerJobs)
}
