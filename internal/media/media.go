package media

type (
	// Format is a single encoded variant of a probed resource. Every
	// field is optional: a nil pointer means the extractor did not
	// report the value, which is distinct from a reported zero. The
	// absence must survive serialization (no omitempty).
	Format struct {
		FormatID   *string `json:"format_id"`
		Ext        *string `json:"ext"`
		FormatNote *string `json:"format_note"`
		Height     *int    `json:"height"`
		Width      *int    `json:"width"`
		Filesize   *int64  `json:"filesize"`
		URL        *string `json:"url"`
	}

	// Metadata describes a probed resource and its candidate variants.
	// Instances are built fresh per request and are never persisted.
	Metadata struct {
		ID          *string  `json:"id"`
		Title       *string  `json:"title"`
		Uploader    *string  `json:"uploader"`
		Thumbnail   *string  `json:"thumbnail"`
		Duration    *float64 `json:"duration"`
		Formats     []Format `json:"formats"`
		DownloadURL *string  `json:"download_url"`
	}
)

// SelectDownloadURL chooses the direct-fetch URL for a probed resource.
// When requestedFormatID is non-empty, the first format whose ID matches
// and which carries a URL wins. Otherwise (including when no format
// matched the request) the format with the greatest height that carries
// a URL wins; a missing height sorts as 0 and ties break to the earliest
// entry. Returns nil when no format carries a URL at all.
func SelectDownloadURL(formats []Format, requestedFormatID string) *string {
	if requestedFormatID != "" {
		for _, f := range formats {
			if f.FormatID != nil && *f.FormatID == requestedFormatID && f.URL != nil {
				return f.URL
			}
		}
	}

	var best *Format
	bestHeight := -1
	for i := range formats {
		f := &formats[i]
		if f.URL == nil {
			continue
		}

		height := 0
		if f.Height != nil {
			height = *f.Height
		}

		if height > bestHeight {
			best = f
			bestHeight = height
		}
	}

	if best == nil {
		return nil
	}

	return best.URL
}
