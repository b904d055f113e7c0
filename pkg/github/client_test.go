package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repopulse/repopulse/pkg/httputil"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient("", WithBaseURL(baseURL))
}

func TestClient_Repo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Repo{
			FullName:   "owner/repo",
			Stars:      1234,
			Forks:      56,
			Watchers:   78,
			OpenIssues: 9,
		})
	}))
	defer server.Close()

	repo, err := testClient(t, server.URL).Repo(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("Repo() failed: %v", err)
	}
	if repo.Stars != 1234 {
		t.Errorf("got %d stars, want 1234", repo.Stars)
	}
	if repo.OpenIssues != 9 {
		t.Errorf("got %d open issues, want 9", repo.OpenIssues)
	}
}

func TestClient_RepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Repo(context.Background(), "owner", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestClient_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Repo(context.Background(), "owner", "repo")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var re *httputil.RetryableError
	if !errors.As(err, &re) {
		t.Errorf("500 should be wrapped as retryable, got %v", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("500 should map to ErrNetwork, got %v", err)
	}
}

func TestClient_Commits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "8" {
			t.Errorf("got per_page=%s, want 8", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"sha": "0123456789abcdef", "commit": {"message": "fix parser", "author": {"name": "Ada"}},
			 "author": {"login": "ada", "avatar_url": "https://example.com/a.png"}},
			{"sha": "fedcba9876543210", "commit": {"message": "initial", "author": {"name": "Grace"}}, "author": null}
		]`)
	}))
	defer server.Close()

	commits, err := testClient(t, server.URL).Commits(context.Background(), "owner", "repo", 8)
	if err != nil {
		t.Fatalf("Commits() failed: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].Author == nil || commits[0].Author.Login != "ada" {
		t.Error("linked author not decoded")
	}
	if commits[1].Author != nil {
		t.Error("null author should decode to nil")
	}
	if commits[1].Commit.Author.Name != "Grace" {
		t.Errorf("got raw author %q, want Grace", commits[1].Commit.Author.Name)
	}
}

func TestClient_Languages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Go": 60000, "Shell": 4000}`)
	}))
	defer server.Close()

	langs, err := testClient(t, server.URL).Languages(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("Languages() failed: %v", err)
	}
	if langs["Go"] != 60000 {
		t.Errorf("got %d bytes of Go, want 60000", langs["Go"])
	}
}

func TestClient_ReleasesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "1" {
			w.Header().Set("Link", `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=2>; rel="last"`)
			fmt.Fprint(w, `[{"tag_name": "v1.0.0", "assets": [{"download_count": 10}]}]`)
			return
		}
		fmt.Fprint(w, `[{"tag_name": "v0.9.0", "assets": []}]`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	releases, hasNext, err := c.Releases(context.Background(), "owner", "repo", 1, 100)
	if err != nil {
		t.Fatalf("Releases(page 1) failed: %v", err)
	}
	if !hasNext {
		t.Error("page 1 should advertise a next page")
	}
	if len(releases) != 1 || releases[0].Assets[0].DownloadCount != 10 {
		t.Errorf("unexpected page 1 payload: %+v", releases)
	}

	_, hasNext, err = c.Releases(context.Background(), "owner", "repo", 2, 100)
	if err != nil {
		t.Fatalf("Releases(page 2) failed: %v", err)
	}
	if hasNext {
		t.Error("page 2 should not advertise a next page")
	}
}

func TestClient_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stargazers_count": "not a number"}`)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Repo(context.Background(), "owner", "repo")
	if err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}

func TestHasNextPage(t *testing.T) {
	tests := []struct {
		name string
		link string
		want bool
	}{
		{"next present", `<https://api.github.com/x?page=2>; rel="next"`, true},
		{"next among others", `<https://x>; rel="prev", <https://x>; rel="next", <https://x>; rel="last"`, true},
		{"only last", `<https://x>; rel="last"`, false},
		{"empty header", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasNextPage(tt.link); got != tt.want {
				t.Errorf("hasNextPage(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestClient_TokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("got Authorization %q, want Bearer tok", got)
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := NewClient("tok", WithBaseURL(server.URL))
	if _, err := c.Repo(context.Background(), "owner", "repo"); err != nil {
		t.Fatalf("Repo() failed: %v", err)
	}
}
