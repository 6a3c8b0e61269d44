// Package github implements commit collection against the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.github.com"

// requestsPerSecond paces API calls below GitHub's secondary rate limits.
const requestsPerSecond = 5

// ErrAuth indicates the token was rejected at the top level. Callers treat
// this as fatal to the whole collection, not a per-unit skip.
var ErrAuth = errors.New("github authentication failed")

// Client is a minimal GitHub REST v3 client covering the four endpoints
// the collector consumes: current user, repository list, commit list,
// and commit detail.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a GitHub client authenticated with a bearer token.
// Every request is bounded by timeout.
func NewClient(token string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		token:      token,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiUser struct {
	Login string `json:"login"`
}

type apiRepo struct {
	FullName string `json:"full_name"`
}

type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
	Files []apiCommitFile `json:"files"`
}

type apiCommitFile struct {
	Filename string `json:"filename"`
	Patch    string `json:"patch"`
}

// currentUser returns the login of the authenticated user. A 401/403 here
// means the token is bad, which is fatal for the run.
func (c *Client) currentUser(ctx context.Context) (string, error) {
	var u apiUser
	if err := c.get(ctx, "/user", nil, &u); err != nil {
		return "", err
	}
	return u.Login, nil
}

// listRepos returns one page of the authenticated user's repositories in
// the API's default order.
func (c *Client) listRepos(ctx context.Context, page, perPage int) ([]apiRepo, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", perPage))

	var repos []apiRepo
	if err := c.get(ctx, "/user/repos", q, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// listCommits returns one page of commits authored by author since the
// given instant, in the order the API returns them.
func (c *Client) listCommits(ctx context.Context, repo, author string, since time.Time, page, perPage int) ([]apiCommit, error) {
	q := url.Values{}
	q.Set("author", author)
	q.Set("since", since.Format(time.RFC3339))
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", perPage))

	var commits []apiCommit
	if err := c.get(ctx, "/repos/"+repo+"/commits", q, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// getCommit fetches the detailed diff for one commit, including the
// per-file patch list.
func (c *Client) getCommit(ctx context.Context, repo, sha string) (*apiCommit, error) {
	var commit apiCommit
	if err := c.get(ctx, "/repos/"+repo+"/commits/"+sha, nil, &commit); err != nil {
		return nil, err
	}
	return &commit, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", ErrAuth, path, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
