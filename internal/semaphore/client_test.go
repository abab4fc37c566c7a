package semaphore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cr3t"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "hash_id": "hash-other", "name": "other"},
			{"id": 2, "hash_id": "hash-app", "name": "app"},
			{"id": 3, "hash_id": "hash-app-dup", "name": "app"}
		]`)
	})
	mux.HandleFunc("/api/v1/projects/hash-app/branches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1324, "name": "master"}, {"id": 1325, "name": "feature/x"}]`)
	})
	mux.HandleFunc("/api/v1/projects/hash-app/1324/builds/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 42, "project_name": "app", "branch_name": "master",
			"commits": [{"id": "abc", "url": "https://github.com/org/app/commit/abc"}]}`)
	})
	mux.HandleFunc("/api/v1/projects/hash-app/1324/builds/42/log", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"threads": [{"number": 1, "commands": [{"name": "bundle exec rake test1", "output": "ok"}]}]}`)
	})
	mux.HandleFunc("/api/v1/projects/hash-app/1324/builds/43", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": `)
	})
	mux.HandleFunc("/api/v1/projects/hash-app/1324/builds/44", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/full.log", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "full log body")
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/full.log" && r.URL.Query().Get(authTokenParam) != testToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	base, err := url.Parse(srv.URL + "/api/v1")
	require.NoError(t, err)
	c, err := NewClient(token, WithBaseURL(base))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestResolveProject(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv, testToken)

	id, err := c.ResolveProject(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, "hash-app", id, "first matching project wins")

	_, err = c.ResolveProject(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveBranch(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv, testToken)

	id, err := c.ResolveBranch(context.Background(), "hash-app", "master")
	require.NoError(t, err)
	assert.Equal(t, "1324", id)

	_, err = c.ResolveBranch(context.Background(), "hash-app", "develop")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBuildStatsAndLog(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv, testToken)
	ctx := context.Background()

	stats, err := c.BuildStats(ctx, "hash-app", "1324", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Number)
	assert.Equal(t, "app", stats.ProjectName)
	assert.Equal(t, "master", stats.BranchName)
	assert.Equal(t, "https://github.com/org/app/commit/abc", stats.CommitURL())

	buildLog, err := c.BuildLog(ctx, "hash-app", "1324", 42)
	require.NoError(t, err)
	require.Len(t, buildLog.Threads, 1)
	cmd, ok := buildLog.Threads[0].LastCommand()
	require.True(t, ok)
	assert.Equal(t, "bundle exec rake test1", cmd.Name)
}

func TestClientErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("malformed json", func(t *testing.T) {
		c := newTestClient(t, srv, testToken)
		_, err := c.BuildStats(ctx, "hash-app", "1324", 43)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, srv, testToken)
		_, err := c.BuildStats(ctx, "hash-app", "1324", 44)
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, http.StatusInternalServerError, ferr.StatusCode)
	})

	t.Run("bad token is redacted", func(t *testing.T) {
		c := newTestClient(t, srv, "wrong-token")
		_, err := c.ListProjects(ctx)
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, http.StatusUnauthorized, ferr.StatusCode)
		assert.False(t, strings.Contains(err.Error(), "wrong-token"))
		assert.Contains(t, err.Error(), "REDACTED")
	})
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv, testToken)

	body, err := c.Download(context.Background(), srv.URL+"/full.log")
	require.NoError(t, err)
	assert.Equal(t, "full log body", string(body))

	_, err = c.Download(context.Background(), srv.URL+"/missing.log")
	var ferr *FetchError
	assert.True(t, errors.As(err, &ferr))
}

func TestNewDownloadClient(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewDownloadClient()
	require.NoError(t, err)

	body, err := c.Download(context.Background(), srv.URL+"/full.log")
	require.NoError(t, err)
	assert.Equal(t, "full log body", string(body))

	_, err = c.Download(context.Background(), "http://127.0.0.1:1/full.log")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "REDACTED")
}
