package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dfryer1193/postbrowser/blog/domain"
)

var _ domain.Fetcher = (*HTTPFetcher)(nil)

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTPFetcher reads post resources relative to a base URL.
type HTTPFetcher struct {
	client *http.Client
	base   *url.URL
}

// NewHTTPFetcher creates an HTTPFetcher rooted at base. A zero timeout means
// requests never time out.
func NewHTTPFetcher(base *url.URL, timeout time.Duration) *HTTPFetcher {
	root := *base
	if !strings.HasSuffix(root.Path, "/") {
		root.Path += "/"
	}

	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		base:   &root,
	}
}

// resolve maps name onto a URL under the base path. name is a file name,
// never a URL, so colons and percent signs are literal.
func (f *HTTPFetcher) resolve(name string) (string, error) {
	joined := path.Join(f.base.Path, strings.TrimPrefix(name, "/"))
	if !strings.HasPrefix(joined, f.base.Path) || joined+"/" == f.base.Path {
		return "", fmt.Errorf("%q is outside %s: %w", name, f.base.Path, domain.ErrNotFound)
	}

	target := *f.base
	target.Path = joined
	target.RawPath = ""
	target.RawQuery = ""
	target.Fragment = ""
	return target.String(), nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	target, err := f.resolve(name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", target, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, &StatusError{URL: target, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	return body, nil
}
