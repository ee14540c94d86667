package probe

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Syphon/internal/api/metrics"
	"github.com/hbomb79/Syphon/internal/extractor"
	"github.com/hbomb79/Syphon/internal/media"
	"github.com/labstack/echo/v4"
)

type (
	// DownloadRequest is the body accepted by the probe endpoint. The
	// URL must be well-formed; FormatID optionally pins the direct
	// URL selection to a specific extractor format.
	DownloadRequest struct {
		URL      string `json:"url" validate:"required,url"`
		FormatID string `json:"format_id"`
	}

	// Controller handles metadata probe requests. It orchestrates a
	// single call in to the extractor capability and shapes the raw
	// result in to the stable response model.
	Controller struct {
		validate  *validator.Validate
		extractor extractor.Extractor
	}
)

func New(validate *validator.Validate, ext extractor.Extractor) *Controller {
	return &Controller{validate: validate, extractor: ext}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("", controller.probe)
}

// probe extracts metadata for the requested URL and selects the best
// candidate direct URL. The extractor runs in metadata-only mode with
// certificate verification disabled, matching the trust posture the
// target CDNs require. Extractor failures are surfaced verbatim so the
// caller can diagnose them.
func (controller *Controller) probe(ec echo.Context) error {
	var request DownloadRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	raw, err := controller.extractor.Extract(ec.Request().Context(), request.URL, extractor.Options{
		SkipDownload:       true,
		VerifyCertificates: false,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("failed to extract info: %s", err.Error()))
	}

	metrics.ProbeRequests.Inc()

	// Playlist-like results are narrowed to their first entry before
	// shaping; multi-entry responses are not supported.
	metadata := raw.FirstEntry().ToMedia()
	metadata.DownloadURL = media.SelectDownloadURL(metadata.Formats, request.FormatID)

	return ec.JSON(http.StatusOK, metadata)
}
