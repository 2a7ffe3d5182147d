package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/google/go-github/v75/github"
)

// GithubSourceRepository reads repository data through the GitHub API.
type GithubSourceRepository struct {
	client  *github.Client
	owner   string
	gitRepo string
}

// NewGithubSourceRepository creates a new GithubSourceRepository.
func NewGithubSourceRepository(client *github.Client, owner string, gitRepo string) *GithubSourceRepository {
	return &GithubSourceRepository{
		client:  client,
		owner:   owner,
		gitRepo: gitRepo,
	}
}

// GetFileContents fetches the contents of a file at a specific ref (branch, tag, or commit SHA).
func (g *GithubSourceRepository) GetFileContents(ctx context.Context, path string, ref string) ([]byte, error) {
	op := fmt.Sprintf("getting file %s at ref %s", path, ref)
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		return nil, handleGithubError(op, err)
	}

	if fileContent == nil {
		return nil, fmt.Errorf("github: %s returned a directory: %w", op, domain.ErrNotFound)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("github: %s failed to decode content: %w", op, err)
	}

	return []byte(content), nil
}

// GetRepoFullName returns the repository's full name (e.g., "owner/repo").
func (g *GithubSourceRepository) GetRepoFullName() string {
	return fmt.Sprintf("%s/%s", g.owner, g.gitRepo)
}

// GetDefaultBranchName fetches the repository metadata and returns the name of the default branch.
func (g *GithubSourceRepository) GetDefaultBranchName(ctx context.Context) (string, error) {
	op := fmt.Sprintf("getting repository info for %s/%s", g.owner, g.gitRepo)
	repo, _, err := g.client.Repositories.Get(ctx, g.owner, g.gitRepo)
	if err != nil {
		return "", handleGithubError(op, err)
	}
	return repo.GetDefaultBranch(), nil
}

// handleGithubError inspects an error from the go-github client and returns a more informative, structured error.
// Missing files and repositories are reported as domain.ErrNotFound.
func handleGithubError(op string, err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		status := 0
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		if status == http.StatusNotFound {
			return fmt.Errorf("github: %s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("github: %s failed with status %d: %s", op, status, errResp.Message)
	}

	return fmt.Errorf("github: %s failed: %w", op, err)
}

var _ domain.Fetcher = (*Fetcher)(nil)

// Fetcher serves post resources from a directory of a repository at a fixed ref.
type Fetcher struct {
	repo *GithubSourceRepository
	dir  string
	ref  string
}

// NewFetcher creates a Fetcher reading files under dir at ref.
func NewFetcher(repo *GithubSourceRepository, dir string, ref string) *Fetcher {
	return &Fetcher{
		repo: repo,
		dir:  dir,
		ref:  ref,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f.repo.GetFileContents(ctx, path.Join(f.dir, name), f.ref)
}
