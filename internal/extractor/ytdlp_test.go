package extractor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_YtDlp_RejectsNonMetadataExtraction(t *testing.T) {
	ext := NewYtDlp(Config{BinaryPath: "yt-dlp"})

	_, err := ext.Extract(context.Background(), "https://example.com/clip", Options{SkipDownload: false})
	assert.NotNil(t, err)
}

func Test_YtDlp_MalformedOutputBecomesExtractionError(t *testing.T) {
	// echo produces output which is not a JSON document
	ext := NewYtDlp(Config{BinaryPath: "echo"})

	_, err := ext.Extract(context.Background(), "https://example.com/clip", Options{SkipDownload: true, VerifyCertificates: false})
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, extractionErr.Message, "malformed extractor output")
}

func Test_YtDlp_BinaryFailureBecomesExtractionError(t *testing.T) {
	ext := NewYtDlp(Config{BinaryPath: "false"})

	_, err := ext.Extract(context.Background(), "https://example.com/clip", Options{SkipDownload: true})
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
	assert.NotEmpty(t, extractionErr.Message)
}

func Test_ExtractionFailureMessage_PrefersLastStderrLine(t *testing.T) {
	stderr := bytes.NewBufferString("WARNING: something minor\nERROR: no video found\n")
	assert.Equal(t, "ERROR: no video found", extractionFailureMessage(stderr, errors.New("exit status 1")))

	assert.Equal(t, "exit status 1", extractionFailureMessage(&bytes.Buffer{}, errors.New("exit status 1")))
}
