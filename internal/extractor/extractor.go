package extractor

import "context"

type (
	// Options control how an extraction is performed. SkipDownload
	// instructs the extractor to probe metadata only and never fetch
	// payload bytes. VerifyCertificates toggles TLS verification for
	// the extractor's own upstream requests; the service deliberately
	// runs with verification disabled because media CDNs routinely
	// present verification-hostile chains.
	Options struct {
		SkipDownload       bool
		VerifyCertificates bool
	}

	// RawFormat mirrors one entry of the extractor's formats list.
	// Fields the extractor did not report stay nil.
	RawFormat struct {
		FormatID   *string `json:"format_id"`
		Ext        *string `json:"ext"`
		FormatNote *string `json:"format_note"`
		Height     *int    `json:"height"`
		Width      *int    `json:"width"`
		Filesize   *int64  `json:"filesize"`
		URL        *string `json:"url"`
	}

	// RawMetadata is the document returned by the extractor for a
	// probed URL. Playlist-like results carry their children in
	// Entries and must be resolved via FirstEntry before use.
	RawMetadata struct {
		ID        *string       `json:"id"`
		Title     *string       `json:"title"`
		Uploader  *string       `json:"uploader"`
		Thumbnail *string       `json:"thumbnail"`
		Duration  *float64      `json:"duration"`
		Entries   []RawMetadata `json:"entries"`
		Formats   []RawFormat   `json:"formats"`
	}

	// Extractor is the capability Syphon consumes to inspect a media
	// URL. The protocol-specific scraping heuristics live entirely
	// behind this interface; Syphon never reimplements them.
	Extractor interface {
		Extract(ctx context.Context, url string, opts Options) (*RawMetadata, error)
	}
)

// ExtractionError indicates the extractor itself failed for the probed
// URL. The message is surfaced verbatim to the API caller so the
// failure can be diagnosed without server access.
type ExtractionError struct {
	Message string
}

func (err *ExtractionError) Error() string {
	return err.Message
}

// FirstEntry resolves playlist-like results to their first child.
// Multi-entry results are not supported; every entry past the first is
// discarded. Non-playlist results resolve to themselves.
func (raw *RawMetadata) FirstEntry() *RawMetadata {
	if len(raw.Entries) > 0 {
		return &raw.Entries[0]
	}

	return raw
}
