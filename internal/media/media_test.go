package media_test

import (
	"testing"

	"github.com/hbomb79/Syphon/internal/media"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func Test_SelectDownloadURL_PicksGreatestHeight(t *testing.T) {
	formats := []media.Format{
		{Height: intPtr(360), URL: strPtr("http://cdn/a")},
		{Height: intPtr(720), URL: strPtr("http://cdn/b")},
	}

	selected := media.SelectDownloadURL(formats, "")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/b", *selected)
}

func Test_SelectDownloadURL_HonoursRequestedFormat(t *testing.T) {
	formats := []media.Format{
		{FormatID: strPtr("360p"), Height: intPtr(360), URL: strPtr("http://cdn/a")},
		{FormatID: strPtr("720p"), Height: intPtr(720), URL: strPtr("http://cdn/b")},
	}

	selected := media.SelectDownloadURL(formats, "360p")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/a", *selected)
}

func Test_SelectDownloadURL_FallsBackWhenRequestedFormatUnusable(t *testing.T) {
	formats := []media.Format{
		{FormatID: strPtr("360p"), Height: intPtr(360), URL: strPtr("http://cdn/a")},
		{FormatID: strPtr("720p"), Height: intPtr(720), URL: strPtr("http://cdn/b")},
		{FormatID: strPtr("1080p"), Height: intPtr(1080)},
	}

	// Requested format does not exist at all
	selected := media.SelectDownloadURL(formats, "4k")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/b", *selected)

	// Requested format exists but carries no direct URL
	selected = media.SelectDownloadURL(formats, "1080p")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/b", *selected)
}

func Test_SelectDownloadURL_AbsentHeightSortsLowest(t *testing.T) {
	formats := []media.Format{
		{URL: strPtr("http://cdn/no-height")},
		{Height: intPtr(144), URL: strPtr("http://cdn/tiny")},
	}

	selected := media.SelectDownloadURL(formats, "")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/tiny", *selected)
}

func Test_SelectDownloadURL_TiesBreakToEarliestFormat(t *testing.T) {
	formats := []media.Format{
		{Height: intPtr(720), URL: strPtr("http://cdn/first")},
		{Height: intPtr(720), URL: strPtr("http://cdn/second")},
	}

	selected := media.SelectDownloadURL(formats, "")
	assert.NotNil(t, selected)
	assert.Equal(t, "http://cdn/first", *selected)
}

func Test_SelectDownloadURL_NilWhenNoFormatCarriesURL(t *testing.T) {
	formats := []media.Format{
		{Height: intPtr(360)},
		{Height: intPtr(720)},
	}

	assert.Nil(t, media.SelectDownloadURL(formats, ""))
	assert.Nil(t, media.SelectDownloadURL(nil, ""))
}
