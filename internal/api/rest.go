package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Syphon/internal/api/metrics"
	"github.com/hbomb79/Syphon/internal/api/probe"
	"github.com/hbomb79/Syphon/internal/api/stream"
	"github.com/hbomb79/Syphon/internal/extractor"
	"github.com/hbomb79/Syphon/internal/limiter"
	"github.com/hbomb79/Syphon/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.Get("API")

const serviceName = "syphon"

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// Admitter gates stream requests by client identity. Only the
	// stream path is gated; metadata probes are deliberately exempt.
	Admitter interface {
		Admit(ctx context.Context, identity string) limiter.Decision
	}

	// The RestGateway is a thin wrapper around the Echo HTTP router.
	// Its sole responsibility is to create the routes Syphon exposes
	// and to enforce rate-limit admission where applicable.
	RestGateway struct {
		config           *RestConfig
		ec               *echo.Echo
		admitter         Admitter
		probeController  controller
		streamController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with the
// routes defined by the probe and stream controllers. A single
// validator instance backs request validation across controllers.
func NewRestGateway(config *RestConfig, admitter Admitter, ext extractor.Extractor, streamService stream.Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	validate := validator.New()
	gateway := &RestGateway{
		config:           config,
		ec:               ec,
		admitter:         admitter,
		probeController:  probe.New(validate, ext),
		streamController: stream.New(validate, streamService),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	// Open CORS posture carried from the original development setup;
	// restrict origins before exposing this publicly.
	ec.Use(middleware.CORS())

	ec.GET("/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"status": "ok", "message": serviceName})
	})
	ec.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	downloads := ec.Group("/download")
	gateway.probeController.SetRoutes(downloads)

	streams := ec.Group("/stream", gateway.enforceRateLimit)
	gateway.streamController.SetRoutes(streams)

	return gateway
}

// enforceRateLimit admits or rejects the request based on the caller's
// source address. Rejections carry a retry-after hint derived from the
// remaining lifetime of the caller's current quota window.
func (gateway *RestGateway) enforceRateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ec echo.Context) error {
		decision := gateway.admitter.Admit(ec.Request().Context(), ec.RealIP())
		if !decision.Allowed {
			metrics.StreamAdmissions.WithLabelValues("rejected").Inc()

			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			ec.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return echo.NewHTTPError(http.StatusTooManyRequests, fmt.Sprintf("rate limit exceeded, try again in %ds", retryAfter))
		}

		metrics.StreamAdmissions.WithLabelValues("admitted").Inc()
		return next(ec)
	}
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
