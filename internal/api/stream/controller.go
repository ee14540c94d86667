package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Syphon/internal/api/metrics"
	"github.com/hbomb79/Syphon/internal/proxy"
	"github.com/labstack/echo/v4"
)

type (
	// StreamRequest carries the query parameters accepted by the
	// stream endpoint. Download toggles the content-disposition
	// attachment header; Filename overrides the name derived from the
	// URL's final path segment.
	StreamRequest struct {
		URL      string `query:"url" validate:"required,url"`
		Download bool   `query:"download"`
		Filename string `query:"filename"`
	}

	// Service opens a stream session against an upstream URL. The
	// session's header decision is complete before it is returned, so
	// failures here can still become proper error responses.
	Service interface {
		Open(ctx context.Context, url string) (*proxy.Session, error)
	}

	// Controller handles stream requests by relaying the upstream
	// body to the downstream client. It never persists content.
	Controller struct {
		validate *validator.Validate
		proxy    Service
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{validate: validate, proxy: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("", controller.stream)
}

// stream proxies the content behind the requested URL to the caller.
// The response status and headers are decided entirely by the
// preflight inside Open; once the first body chunk is written they are
// committed, and any mid-stream failure truncates the body rather than
// injecting an error payload.
func (controller *Controller) stream(ec echo.Context) error {
	var request StreamRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request: %s", err.Error()))
	}

	session, err := controller.proxy.Open(ec.Request().Context(), request.URL)
	if err != nil {
		var statusErr *proxy.UpstreamStatusError
		if errors.As(err, &statusErr) {
			return echo.NewHTTPError(statusErr.Code, "upstream returned an error")
		}

		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	defer session.Close()

	resp := ec.Response()
	resp.Header().Set(echo.HeaderContentType, session.ContentType)
	if request.Download {
		name := request.Filename
		if name == "" {
			name = proxy.FilenameFromURL(request.URL)
		}

		resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, proxy.SanitizeFilename(name)))
	}

	resp.WriteHeader(http.StatusOK)
	written, _ := session.Relay(resp)
	metrics.StreamedBytes.Add(float64(written))

	return nil
}
