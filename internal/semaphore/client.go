// Package semaphore is a small client for the Semaphore CI API v1, covering the
// endpoints needed to build a thread report: projects, branches, build
// information and build logs.
package semaphore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAPIURL = "https://semaphoreci.com/api/v1"

	defaultMaxIdleConns        = 100
	defaultMaxConnsPerHost     = 100
	defaultMaxIdleConnsPerHost = 100
	authTokenParam             = "auth_token"
	apiPathProjects            = "projects"
)

// Client is the Semaphore API structure holding the HTTP client.
type Client struct {
	client  *http.Client
	baseURL *url.URL
	token   string
}

// Option customizes the Client created by NewClient.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests and on-premise setups.
func WithBaseURL(u *url.URL) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets a timeout for every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new API client setting the http attributes to improve
// the connection reuse.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("auth token must be set")
	}
	return newClient(token, opts...)
}

// NewDownloadClient creates a client without credentials, only usable to
// Download thread logs.
func NewDownloadClient(opts ...Option) (*Client, error) {
	return newClient("", opts...)
}

func newClient(token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(DefaultAPIURL)
	if err != nil {
		return nil, fmt.Errorf("malformed URL: %+v", err)
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = defaultMaxIdleConns
	t.MaxConnsPerHost = defaultMaxConnsPerHost
	t.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost

	c := &Client{
		client:  &http.Client{Transport: t},
		baseURL: base,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProjects returns all projects visible to the token owner.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	projects := []Project{}
	if err := c.getJSON(ctx, c.endpoint(apiPathProjects), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListBranches returns the branches of the project identified by projectID.
func (c *Client) ListBranches(ctx context.Context, projectID string) ([]Branch, error) {
	branches := []Branch{}
	if err := c.getJSON(ctx, c.endpoint(apiPathProjects, projectID, "branches"), &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// ResolveProject returns the hash id of the first project named name.
func (c *Client) ResolveProject(ctx context.Context, name string) (string, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.Name == name {
			return p.HashID, nil
		}
	}
	return "", fmt.Errorf("project %q: %w", name, ErrNotFound)
}

// ResolveBranch returns the id of the first branch named name in the project.
func (c *Client) ResolveBranch(ctx context.Context, projectID, name string) (string, error) {
	branches, err := c.ListBranches(ctx, projectID)
	if err != nil {
		return "", err
	}
	for _, b := range branches {
		if b.Name == name {
			return strconv.FormatInt(b.ID, 10), nil
		}
	}
	return "", fmt.Errorf("branch %q: %w", name, ErrNotFound)
}

// BuildStats fetches the build information document.
func (c *Client) BuildStats(ctx context.Context, projectID, branchID string, build int) (*BuildStats, error) {
	stats := &BuildStats{}
	u := c.endpoint(apiPathProjects, projectID, branchID, "builds", strconv.Itoa(build))
	if err := c.getJSON(ctx, u, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// BuildLog fetches the build log document with one entry per thread.
func (c *Client) BuildLog(ctx context.Context, projectID, branchID string, build int) (*BuildLog, error) {
	buildLog := &BuildLog{}
	u := c.endpoint(apiPathProjects, projectID, branchID, "builds", strconv.Itoa(build), "log")
	if err := c.getJSON(ctx, u, buildLog); err != nil {
		return nil, err
	}
	return buildLog, nil
}

// Download fetches an arbitrary URL, such as the full log of a thread whose
// inline output was truncated, and returns the body. The auth token is not
// sent along.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return c.get(ctx, u)
}

// endpoint joins the path elements to the base URL, appending the token.
func (c *Client) endpoint(elem ...string) *url.URL {
	u := *c.baseURL
	escaped := make([]string, 0, len(elem))
	for _, e := range elem {
		escaped = append(escaped, url.PathEscape(e))
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(escaped, "/")
	u.RawPath = ""

	params := url.Values{}
	params.Add(authTokenParam, c.token)
	u.RawQuery = params.Encode()
	return &u
}

func (c *Client) getJSON(ctx context.Context, u *url.URL, out interface{}) error {
	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{URL: redactURL(u), Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	safeURL := redactURL(u)
	log.Debugf("GET %s", safeURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: safeURL, Err: fmt.Errorf("couldn't create the request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		// the transport error embeds the raw URL, token included.
		return nil, &FetchError{URL: safeURL, Err: fmt.Errorf("request failed: %s", c.redact(err.Error()))}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &FetchError{URL: safeURL, Err: fmt.Errorf("couldn't read response body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{URL: safeURL, StatusCode: res.StatusCode}
	}
	return body, nil
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "REDACTED")
}
