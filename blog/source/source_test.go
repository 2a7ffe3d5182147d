package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dfryer1193/postbrowser/blog/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	files := map[string]string{
		"/blog/posts/posts.json":          `["a.md"]`,
		"/blog/posts/a.md":                "# First\nbody",
		"/blog/posts/2024-01-01T10:00.md": "# Timestamped",
		"/blog/posts/note:one.md":         "# Note one",
		"/blog/posts/100%.md":             "# Full marks",
		"/blog/posts/what?.md":            "# Question",
		"/blog/secret":                    "# Secret",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/blog/posts/broken.md" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name     string
		base     string
		path     string
		expected string
		notFound bool
	}{
		{
			name:     "Manifest",
			base:     server.URL + "/blog/posts",
			path:     "posts.json",
			expected: `["a.md"]`,
		},
		{
			name:     "Post with trailing slash base",
			base:     server.URL + "/blog/posts/",
			path:     "a.md",
			expected: "# First\nbody",
		},
		{
			name:     "Leading slash is relative to base",
			base:     server.URL + "/blog/posts",
			path:     "/a.md",
			expected: "# First\nbody",
		},
		{
			name:     "Colon in name",
			base:     server.URL + "/blog/posts",
			path:     "2024-01-01T10:00.md",
			expected: "# Timestamped",
		},
		{
			name:     "Name that looks like a scheme",
			base:     server.URL + "/blog/posts",
			path:     "note:one.md",
			expected: "# Note one",
		},
		{
			name:     "Percent sign in name",
			base:     server.URL + "/blog/posts",
			path:     "100%.md",
			expected: "# Full marks",
		},
		{
			name:     "Question mark in name",
			base:     server.URL + "/blog/posts",
			path:     "what?.md",
			expected: "# Question",
		},
		{
			name:     "Missing post",
			base:     server.URL + "/blog/posts",
			path:     "missing.md",
			notFound: true,
		},
		{
			name:     "Server error is not ok",
			base:     server.URL + "/blog/posts",
			path:     "broken.md",
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := url.Parse(tt.base)
			if err != nil {
				t.Fatalf("Failed to parse base: %v", err)
			}

			content, err := NewHTTPFetcher(base, 0).Fetch(context.Background(), tt.path)
			if tt.notFound {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("error = %v, want domain.ErrNotFound", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if string(content) != tt.expected {
				t.Errorf("content = %q, want %q", content, tt.expected)
			}
		})
	}
}

func TestHTTPFetcher_StaysUnderBase(t *testing.T) {
	var requests []string
	outside := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		w.Write([]byte("# Outside"))
	}))
	t.Cleanup(outside.Close)

	server := newTestServer(t)
	base, _ := url.Parse(server.URL + "/blog/posts")
	fetcher := NewHTTPFetcher(base, 0)

	names := []string{
		outside.URL + "/meta",
		"//" + strings.TrimPrefix(outside.URL, "http://") + "/meta",
		"../secret",
		"a/../../secret",
		"",
		".",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			content, err := fetcher.Fetch(context.Background(), name)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Fetch(%q) = %q, %v; want domain.ErrNotFound", name, content, err)
			}
		})
	}

	if len(requests) != 0 {
		t.Errorf("server outside the base was contacted: %v", requests)
	}
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	server := newTestServer(t)
	base, _ := url.Parse(server.URL + "/blog/posts")

	_, err := NewHTTPFetcher(base, 0).Fetch(context.Background(), "broken.md")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	server := newTestServer(t)
	base, _ := url.Parse(server.URL + "/blog/posts")
	server.Close()

	_, err := NewHTTPFetcher(base, 0).Fetch(context.Background(), "a.md")
	if err == nil {
		t.Fatal("Expected error from closed server, got nil")
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Errorf("transport failure should not read as not found: %v", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		unsupported bool
		shouldError bool
	}{
		{name: "HTTP", raw: "http://localhost:8080/posts"},
		{name: "HTTPS", raw: "https://example.com/posts/"},
		{name: "File URL", raw: "file:///srv/blog/posts", unsupported: true, shouldError: true},
		{name: "Bare path", raw: "./posts", unsupported: true, shouldError: true},
		{name: "Empty", raw: "", shouldError: true},
		{name: "Unknown scheme", raw: "ftp://example.com/posts", shouldError: true},
		{name: "GitHub without repo", raw: "github://owner", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher, err := Resolve(context.Background(), tt.raw, Options{})

			if tt.shouldError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if errors.Is(err, domain.ErrUnsupportedContext) != tt.unsupported {
					t.Errorf("errors.Is(err, ErrUnsupportedContext) = %v, want %v", !tt.unsupported, tt.unsupported)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if _, ok := fetcher.(*HTTPFetcher); !ok {
				t.Errorf("fetcher = %T, want *HTTPFetcher", fetcher)
			}
		})
	}
}

func TestResolve_GithubWithRef(t *testing.T) {
	fetcher, err := Resolve(context.Background(), "github://owner/blog/posts?ref=main", Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if fetcher == nil {
		t.Fatal("Resolve returned nil fetcher")
	}
}
