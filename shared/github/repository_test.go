package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/google/go-github/v75/github"
)

// setupTestRepo serves a fake contents API for owner/blog with the given files.
func setupTestRepo(t *testing.T, files map[string]string) *GithubSourceRepository {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/blog/contents/", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[len("/repos/owner/blog/contents/"):]
		content, ok := files[name+"@"+r.URL.Query().Get("ref")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":%q,"path":%q,"content":%q}`, name, name, encoded)
	})
	mux.HandleFunc("/repos/owner/blog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"blog","full_name":"owner/blog","default_branch":"trunk"}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	client.BaseURL = baseURL

	return NewGithubSourceRepository(client, "owner", "blog")
}

func TestGithubSourceRepository_GetFileContents(t *testing.T) {
	repo := setupTestRepo(t, map[string]string{
		"posts/a.md@main": "# First\nbody",
	})

	content, err := repo.GetFileContents(context.Background(), "posts/a.md", "main")
	if err != nil {
		t.Fatalf("GetFileContents failed: %v", err)
	}

	if string(content) != "# First\nbody" {
		t.Errorf("content = %q, want %q", content, "# First\nbody")
	}
}

func TestGithubSourceRepository_GetFileContents_NotFound(t *testing.T) {
	repo := setupTestRepo(t, nil)

	_, err := repo.GetFileContents(context.Background(), "posts/missing.md", "main")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}

	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want domain.ErrNotFound", err)
	}
}

func TestGithubSourceRepository_GetDefaultBranchName(t *testing.T) {
	repo := setupTestRepo(t, nil)

	branch, err := repo.GetDefaultBranchName(context.Background())
	if err != nil {
		t.Fatalf("GetDefaultBranchName failed: %v", err)
	}

	if branch != "trunk" {
		t.Errorf("branch = %q, want %q", branch, "trunk")
	}
}

func TestGithubSourceRepository_GetRepoFullName(t *testing.T) {
	repo := NewGithubSourceRepository(github.NewClient(nil), "owner", "blog")

	if repo.GetRepoFullName() != "owner/blog" {
		t.Errorf("GetRepoFullName() = %q, want %q", repo.GetRepoFullName(), "owner/blog")
	}
}

func TestFetcher_Fetch(t *testing.T) {
	repo := setupTestRepo(t, map[string]string{
		"posts/posts.json@v1": `["a.md"]`,
	})

	fetcher := NewFetcher(repo, "posts", "v1")

	content, err := fetcher.Fetch(context.Background(), "posts.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(content) != `["a.md"]` {
		t.Errorf("content = %q, want %q", content, `["a.md"]`)
	}

	_, err = fetcher.Fetch(context.Background(), "a.md")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want domain.ErrNotFound", err)
	}
}

func TestHandleGithubError(t *testing.T) {
	if handleGithubError("op", nil) != nil {
		t.Error("handleGithubError(nil) should return nil")
	}

	err := handleGithubError("op", &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusInternalServerError},
		Message:  "boom",
	})
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want a non-not-found error", err)
	}
}
