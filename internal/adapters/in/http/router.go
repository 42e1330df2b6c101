package http

import (
	"net/http"

	"fieldservice/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/metric"
)

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

type routerOptions struct {
	meter metric.Meter
}

// WithMeter records HTTP metrics with meter instead of the global provider.
func WithMeter(meter metric.Meter) RouterOption {
	return func(o *routerOptions) {
		o.meter = meter
	}
}

// NewRouter wires the server into an echo instance: recovery, metrics,
// OpenAPI request validation, the API routes, /health and the Swagger UI.
func NewRouter(server servers.ServerInterface, opts ...RouterOption) (*echo.Echo, error) {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}
	validate, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	if o.meter != nil {
		e.Use(MetricsWithMeter(o.meter))
	} else {
		e.Use(Metrics())
	}
	e.Use(validate)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	registerSwaggerRoutes(e)
	servers.RegisterHandlers(e, server)

	return e, nil
}
