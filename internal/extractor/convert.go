package extractor

import "github.com/hbomb79/Syphon/internal/media"

// ToMedia projects a resolved extraction result in to the media domain
// model. Absent fields are carried through as nil rather than being
// coerced to zero values; a missing height/filesize is semantically
// different to a reported zero.
func (raw *RawMetadata) ToMedia() *media.Metadata {
	formats := make([]media.Format, 0, len(raw.Formats))
	for _, f := range raw.Formats {
		formats = append(formats, media.Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			FormatNote: f.FormatNote,
			Height:     f.Height,
			Width:      f.Width,
			Filesize:   f.Filesize,
			URL:        f.URL,
		})
	}

	return &media.Metadata{
		ID:        raw.ID,
		Title:     raw.Title,
		Uploader:  raw.Uploader,
		Thumbnail: raw.Thumbnail,
		Duration:  raw.Duration,
		Formats:   formats,
	}
}
