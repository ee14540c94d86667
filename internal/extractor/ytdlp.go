package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hbomb79/Syphon/pkg/logger"
)

var log = logger.Get("Extractor")

type Config struct {
	BinaryPath string `yaml:"binary_path" env:"EXTRACTOR_BINARY_PATH" env-default:"yt-dlp"`
}

// ytDlpExtractor shells out to the yt-dlp binary and decodes its JSON
// dump. It performs no scraping of its own.
type ytDlpExtractor struct {
	config Config
}

func NewYtDlp(config Config) *ytDlpExtractor {
	return &ytDlpExtractor{config: config}
}

// Extract probes the given URL. The -J flag dumps a single JSON
// document without downloading any payload, which satisfies
// Options.SkipDownload; requesting an extraction with SkipDownload
// unset is an error as this extractor never fetches payload bytes.
func (ext *ytDlpExtractor) Extract(ctx context.Context, url string, opts Options) (*RawMetadata, error) {
	if !opts.SkipDownload {
		return nil, errors.New("yt-dlp extractor only supports metadata-only extraction")
	}

	args := []string{"-J"}
	if !opts.VerifyCertificates {
		args = append(args, "--no-check-certificates")
	}
	args = append(args, url)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ext.config.BinaryPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Emit(logger.DEBUG, "Extracting metadata for %s using %s\n", url, ext.config.BinaryPath)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, &ExtractionError{Message: extractionFailureMessage(&stderr, err)}
	}

	var raw RawMetadata
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, &ExtractionError{Message: fmt.Sprintf("malformed extractor output: %s", err.Error())}
	}

	return &raw, nil
}

// extractionFailureMessage derives a useful diagnostic from a failed
// extractor invocation. yt-dlp reports its failure reason on the last
// stderr line; fall back to the exec error when stderr is empty.
func extractionFailureMessage(stderr *bytes.Buffer, execErr error) string {
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}

	return execErr.Error()
}
