package http

import (
	"errors"
	"net/http"

	"fieldservice/internal/core/application/tracking"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/generated/servers"
	"fieldservice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrTooManyAttempts is returned when a job received too many code attempts.
var ErrTooManyAttempts = errors.New("too many code attempts, retry later")

// statusOf maps use case errors to HTTP statuses. Order matters: the
// specialised precondition errors are checked through their root.
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, job.ErrInvalidTransition),
		errors.Is(err, ports.ErrJobBusy),
		errors.Is(err, ports.ErrConcurrentModification),
		errors.Is(err, commands.ErrJobAlreadyExists),
		errors.Is(err, job.ErrJobIsImmutable),
		errors.Is(err, tracking.ErrSessionNotRunning):
		return http.StatusConflict
	case errors.Is(err, job.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, job.ErrCodeMismatch),
		errors.Is(err, job.ErrAmountMismatch),
		errors.Is(err, job.ErrStaleInitiation),
		errors.Is(err, job.ErrAlreadyVerified),
		errors.Is(err, tracking.ErrNoPosition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, commands.ErrCodeNotDelivered):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = http.StatusText(code)
	}

	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

// ErrorHandler renders errors escaping the handlers (binding, validation,
// routing) in the same shape as use case errors.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	if respErr := respondError(ctx, err); respErr != nil {
		ctx.Logger().Error(respErr)
	}
}
