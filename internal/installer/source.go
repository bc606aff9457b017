package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/giantswarm/dynamolocal/internal/fileutil"
)

// StatusError reports a download that returned a non-success HTTP status.
// Location carries the redirect target, if the response included one, since
// redirects are not followed and the header is the most useful diagnostic
// for a 3xx response.
type StatusError struct {
	Code     int
	Location string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("download returned HTTP %d (location: %s)", e.Code, e.Location)
	}
	return fmt.Sprintf("download returned HTTP %d", e.Code)
}

// newNoRedirectClient returns an HTTP client that inspects only the initial
// response. Redirects surface to the caller as their 3xx status instead of
// being followed. timeout bounds the whole download including the body read;
// zero means no client-side limit.
func newNoRedirectClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// openSource resolves the archive source to a byte stream. A DownloadURL
// that names an existing local file is opened directly; anything else is
// fetched with a GET request.
func (i *Installer) openSource(ctx context.Context) (io.ReadCloser, error) {
	if fileutil.FileExists(i.config.DownloadURL) {
		f, err := os.Open(i.config.DownloadURL)
		if err != nil {
			return nil, fmt.Errorf("open local archive %s: %w", i.config.DownloadURL, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.config.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		location := resp.Header.Get("Location")
		// The body of an error response is useless to us; drain nothing,
		// just close it so the connection can be reused.
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Location: location}
	}

	return resp.Body, nil
}
