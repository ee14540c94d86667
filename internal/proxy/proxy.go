// Package proxy relays the content behind an arbitrary upstream URL to
// a downstream client without ever persisting it. A lightweight
// preflight establishes the upstream's status and headers before any
// body byte is committed; the body itself is then fetched over a
// second, independent connection and forwarded in bounded-size chunks
// at whatever pace the downstream transport accepts.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Syphon/pkg/logger"
)

var log = logger.Get("Proxy")

const defaultContentType = "application/octet-stream"

type Config struct {
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"PROXY_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds" env:"PROXY_CONNECT_TIMEOUT_SECONDS" env-default:"10"`
	ChunkSize             int `yaml:"chunk_size" env:"PROXY_CHUNK_SIZE" env-default:"8192"`
}

// ErrUpstreamUnreachable indicates the upstream could not be reached
// at all (network failure or timeout), as opposed to the upstream
// answering with an error status.
var ErrUpstreamUnreachable = errors.New("upstream request failed")

// UpstreamStatusError indicates the upstream answered with an error
// status (>= 400) which should be propagated to the downstream caller.
type UpstreamStatusError struct {
	Code int
}

func (err *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned an error (status %d)", err.Code)
}

type (
	// Proxy opens stream sessions against upstream URLs. It holds one
	// client for header-only preflights, bounded by a total request
	// timeout, and one for body fetches which must be allowed to
	// outlive any fixed deadline (bodies are unbounded in length).
	Proxy struct {
		config      Config
		headClient  *http.Client
		fetchClient *http.Client
	}

	// Session is the lifetime of one proxied request: the preflight's
	// header decision plus an open fetch connection over the upstream
	// body. It is owned exclusively by the request that opened it and
	// must be closed on every exit path.
	Session struct {
		ID          uuid.UUID
		ContentType string

		body      io.ReadCloser
		chunkSize int
	}
)

func New(config Config) *Proxy {
	dialer := &net.Dialer{Timeout: time.Duration(config.ConnectTimeoutSeconds) * time.Second}
	return &Proxy{
		config: config,
		headClient: &http.Client{
			Timeout:   time.Duration(config.RequestTimeoutSeconds) * time.Second,
			Transport: &http.Transport{DialContext: dialer.DialContext},
		},
		fetchClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				ResponseHeaderTimeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
			},
		},
	}
}

// Open performs the preflight against the upstream URL and, if it
// passes, opens the fetch connection for the body. The returned
// session carries the content type decided by the preflight; no
// downstream byte has been written yet, so callers are free to turn
// any returned error in to a proper error response.
//
// The provided context must be the downstream request's context so
// that a client disconnect promptly cancels any pending upstream work.
func (proxy *Proxy) Open(ctx context.Context, url string) (*Session, error) {
	contentType, err := proxy.preflight(ctx, url)
	if err != nil {
		return nil, err
	}

	body, err := proxy.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          uuid.New(),
		ContentType: contentType,
		body:        body,
		chunkSize:   proxy.config.ChunkSize,
	}

	log.Emit(logger.NEW, "Opened stream session %s for %s (%s)\n", session.ID, url, contentType)
	return session, nil
}

// preflight probes the upstream with a header-only request, following
// redirects, and reports the content type the downstream response
// should carry. The preflight connection is never reused for the
// subsequent body fetch.
func (proxy *Proxy) preflight(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err.Error())
	}
	req.Close = true

	resp, err := proxy.headClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &UpstreamStatusError{Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return contentType, nil
}

// fetch opens the actual body connection. A >= 400 status here means
// the upstream answered differently to the preflight moments earlier;
// the body is released and the status propagated, which is still
// possible as no downstream byte has been committed.
func (proxy *Proxy) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err.Error())
	}

	resp, err := proxy.fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err.Error())
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &UpstreamStatusError{Code: resp.StatusCode}
	}

	return resp.Body, nil
}

// Relay forwards the upstream body to the given writer in chunks,
// flushing after each chunk so the downstream transport's pace governs
// how fast upstream bytes are pulled. The full body is never buffered.
//
// Upstream read failures mid-stream terminate the relay silently: the
// headers are already committed by the first write, so the truncation
// is left for the transport layer to surface rather than synthesizing
// an error payload in to the body. A write failure (downstream client
// gone) is returned to the caller.
func (session *Session) Relay(w io.Writer) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, session.chunkSize)

	var written int64
	for {
		n, readErr := session.body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				log.Emit(logger.DEBUG, "Stream session %s: downstream write failed (%s)\n", session.ID, writeErr.Error())
				return written, writeErr
			}
			written += int64(n)

			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr == io.EOF {
			log.Emit(logger.DEBUG, "Stream session %s complete (%d bytes)\n", session.ID, written)
			return written, nil
		}
		if readErr != nil {
			log.Emit(logger.WARNING, "Stream session %s truncated after %d bytes: %s\n", session.ID, written, readErr.Error())
			return written, nil
		}
	}
}

// Close releases the fetch connection. It is safe to call on every
// exit path, including after a relay failure.
func (session *Session) Close() error {
	return session.body.Close()
}
