package extractor_test

import (
	"encoding/json"
	"testing"

	"github.com/hbomb79/Syphon/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExtraction = `{
	"id": "abc123",
	"title": "A Clip",
	"uploader": "someone",
	"thumbnail": "https://cdn.example/thumb.jpg",
	"duration": 12.5,
	"formats": [
		{"format_id": "18", "ext": "mp4", "height": 360, "width": 640, "url": "https://cdn.example/a"},
		{"format_id": "22", "format_note": "hd", "filesize": 1048576, "url": "https://cdn.example/b"}
	]
}`

func Test_ToMedia_PreservesAbsenceOfFields(t *testing.T) {
	var raw extractor.RawMetadata
	require.Nil(t, json.Unmarshal([]byte(sampleExtraction), &raw))

	metadata := raw.ToMedia()
	require.Len(t, metadata.Formats, 2)

	first, second := metadata.Formats[0], metadata.Formats[1]

	assert.Equal(t, "18", *first.FormatID)
	assert.Equal(t, 360, *first.Height)
	assert.Equal(t, 640, *first.Width)
	assert.Nil(t, first.FormatNote)
	assert.Nil(t, first.Filesize)

	assert.Equal(t, "hd", *second.FormatNote)
	assert.Equal(t, int64(1048576), *second.Filesize)
	assert.Nil(t, second.Height)
	assert.Nil(t, second.Width)

	assert.Equal(t, "A Clip", *metadata.Title)
	assert.Equal(t, 12.5, *metadata.Duration)
	assert.Nil(t, metadata.DownloadURL)
}

func Test_ToMedia_AbsentFieldsSerializeAsNull(t *testing.T) {
	var raw extractor.RawMetadata
	require.Nil(t, json.Unmarshal([]byte(sampleExtraction), &raw))

	encoded, err := json.Marshal(raw.ToMedia().Formats[0])
	require.Nil(t, err)

	// Absence must reach the caller as null, never as a zero value.
	assert.Contains(t, string(encoded), `"format_note":null`)
	assert.Contains(t, string(encoded), `"filesize":null`)
	assert.Contains(t, string(encoded), `"height":360`)
}

func Test_FirstEntry_ResolvesPlaylistToFirstChild(t *testing.T) {
	playlist := `{
		"id": "playlist",
		"entries": [
			{"id": "one", "title": "First"},
			{"id": "two", "title": "Second"}
		]
	}`

	var raw extractor.RawMetadata
	require.Nil(t, json.Unmarshal([]byte(playlist), &raw))

	resolved := raw.FirstEntry()
	assert.Equal(t, "one", *resolved.ID)
	assert.Equal(t, "First", *resolved.Title)
}

func Test_FirstEntry_NonPlaylistResolvesToSelf(t *testing.T) {
	var raw extractor.RawMetadata
	require.Nil(t, json.Unmarshal([]byte(sampleExtraction), &raw))

	assert.Same(t, &raw, raw.FirstEntry())
}
