package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	"edusearch/internal/apperrors"
)

// DefaultFetchTimeout bounds a single GET, grounded on
// Xhy51-project_changes' Download (http.Get with no timeout) hardened with
// the timeout spec.md §4.4 requires ("default timeout" on fetch).
const DefaultFetchTimeout = 15 * time.Second

// fetch performs a single GET and returns the response body. Any timeout,
// I/O, or non-2xx HTTP error is apperrors.ErrFetchFailed — spec.md §4.4
// step 3 says these are dropped silently by the caller.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.Errorf("%w: %s", apperrors.ErrFetchFailed, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	return body, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}
