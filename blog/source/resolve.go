// Package source turns a configured source URL into a domain.Fetcher.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dfryer1193/postbrowser/blog/domain"
	gh "github.com/dfryer1193/postbrowser/shared/github"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
)

const defaultTokenEnv = "GITHUB_TOKEN"

// Options configures fetcher construction.
type Options struct {
	Timeout time.Duration
}

// Resolve builds a fetcher for raw.
//
//	http(s)://host/posts/                 plain HTTP
//	github://owner/repo/posts?ref=main    GitHub contents API
//
// file:// URLs and bare paths have no HTTP semantics; they yield an error
// wrapping domain.ErrUnsupportedContext.
func Resolve(ctx context.Context, raw string, opts Options) (domain.Fetcher, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("source URL is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPFetcher(u, opts.Timeout), nil
	case "github":
		return resolveGithub(ctx, u, opts)
	case "", "file":
		return nil, fmt.Errorf("%w: %q is a filesystem location", domain.ErrUnsupportedContext, raw)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

func resolveGithub(ctx context.Context, u *url.URL, opts Options) (domain.Fetcher, error) {
	owner := u.Host
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if owner == "" || parts[0] == "" {
		return nil, fmt.Errorf("github source must look like github://owner/repo[/dir], got %q", u.String())
	}
	repo := parts[0]
	dir := ""
	if len(parts) == 2 {
		dir = parts[1]
	}

	tokenEnv := u.Query().Get("token_env")
	if tokenEnv == "" {
		tokenEnv = defaultTokenEnv
	}

	client := github.NewClient(&http.Client{Timeout: opts.Timeout})
	if token := os.Getenv(tokenEnv); token != "" {
		client = client.WithAuthToken(token)
	}

	sourceRepo := gh.NewGithubSourceRepository(client, owner, repo)

	ref := u.Query().Get("ref")
	if ref == "" {
		defaultBranch, err := sourceRepo.GetDefaultBranchName(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default branch: %w", err)
		}
		ref = defaultBranch
		log.Info().Str("repo", sourceRepo.GetRepoFullName()).Str("ref", ref).Msg("Using default branch")
	}

	return gh.NewFetcher(sourceRepo, dir, ref), nil
}
