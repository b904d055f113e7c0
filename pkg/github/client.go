package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/repopulse/repopulse/pkg/httputil"
	"github.com/repopulse/repopulse/pkg/observability"
)

const (
	defaultBaseURL = "https://api.github.com"
	httpTimeout    = 10 * time.Second
)

var (
	// ErrNotFound is returned when a repository or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// non-success response statuses).
	ErrNetwork = errors.New("network error")
)

// Client provides access to the GitHub API for repository statistics.
// It handles common request headers, status classification, and retryable
// error wrapping. Callers layer caching and retries on top.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Useful for GitHub Enterprise
// endpoints and for tests pointing at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(token string, opts ...Option) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: defaultBaseURL,
		headers: headers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo fetches repository metadata.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*Repo, error) {
	var data Repo
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.get(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}
	return &data, nil
}

// Commits fetches the most recent commits, newest first.
func (c *Client) Commits(ctx context.Context, owner, repo string, limit int) ([]Commit, error) {
	var data []Commit
	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d", c.baseURL, owner, repo, limit)
	if err := c.get(ctx, url, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Contributors fetches the top contributors, descending by contribution count.
func (c *Client) Contributors(ctx context.Context, owner, repo string, limit int) ([]Contributor, error) {
	var data []Contributor
	url := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=%d", c.baseURL, owner, repo, limit)
	if err := c.get(ctx, url, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Languages fetches the per-language byte counts.
func (c *Client) Languages(ctx context.Context, owner, repo string) (Languages, error) {
	var data Languages
	url := fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, owner, repo)
	if err := c.get(ctx, url, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// LatestRelease fetches the most recent published release.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	var data Release
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)
	if err := c.get(ctx, url, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Releases fetches one page of the release listing. The second return value
// reports whether the response advertises a next page via the Link header.
func (c *Client) Releases(ctx context.Context, owner, repo string, page, perPage int) ([]Release, bool, error) {
	var data []Release
	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", c.baseURL, owner, repo, perPage, page)
	hasNext, err := c.getPaged(ctx, url, &data)
	if err != nil {
		return nil, false, err
	}
	return data, hasNext, nil
}

// get performs a GET request and JSON-decodes the response into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	_, err := c.doRequest(ctx, url, v)
	return err
}

// getPaged is get plus next-page detection from the Link response header.
func (c *Client) getPaged(ctx context.Context, url string, v any) (bool, error) {
	resp, err := c.doRequest(ctx, url, v)
	if err != nil {
		return false, err
	}
	return hasNextPage(resp.Header.Get("Link")), nil
}

func (c *Client) doRequest(ctx context.Context, url string, v any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// hasNextPage reports whether a GitHub Link header advertises a next page.
// Example: <https://api.github.com/...&page=2>; rel="next", <...>; rel="last"
func hasNextPage(link string) bool {
	for _, part := range strings.Split(link, ",") {
		if strings.Contains(part, `rel="next"`) {
			return true
		}
	}
	return false
}
