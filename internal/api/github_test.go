package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// rewriteTransport sends every request to the test server
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, hostname string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	c, err := NewClient(Options{
		Hostname:  hostname,
		Token:     "test-token",
		Transport: rewriteTransport{target: target},
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type countingLimiter struct {
	calls atomic.Int32
}

func (l *countingLimiter) Wait(context.Context) error {
	l.calls.Add(1)
	return nil
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		hostname string
		rest     string
		graphql  string
		host     string
	}{
		{hostname: "", rest: "https://api.github.com", graphql: "https://api.github.com/graphql", host: "github.com"},
		{hostname: "github.com", rest: "https://api.github.com", graphql: "https://api.github.com/graphql", host: "github.com"},
		{hostname: "API.GitHub.com", rest: "https://api.github.com", graphql: "https://api.github.com/graphql", host: "github.com"},
		{hostname: "ghes.example.com", rest: "https://ghes.example.com/api/v3", graphql: "https://ghes.example.com/api/graphql", host: "ghes.example.com"},
		{hostname: "https://ghes.example.com/api/v3", rest: "https://ghes.example.com/api/v3", graphql: "https://ghes.example.com/api/v3", host: "ghes.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.rest, RESTEndpoint(tt.hostname))
			assert.Equal(t, tt.graphql, GraphQLEndpoint(tt.hostname))
			assert.Equal(t, tt.host, Hostname(tt.hostname))
		})
	}
}

func TestNextPage(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "next and last",
			link:     `<https://api.github.com/orgs/o/repos?page=2>; rel="next", <https://api.github.com/orgs/o/repos?page=5>; rel="last"`,
			expected: "https://api.github.com/orgs/o/repos?page=2",
		},
		{
			name:     "last page",
			link:     `<https://api.github.com/orgs/o/repos?page=1>; rel="prev", <https://api.github.com/orgs/o/repos?page=1>; rel="first"`,
			expected: "",
		},
		{name: "no header", link: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextPage(tt.link))
		})
	}
}

func TestFetchResource(t *testing.T) {
	t.Run("should send the token and decode the body", func(t *testing.T) {
		c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orgs/octo-org", r.URL.Path)
			assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"login":"octo-org"}`)
		}))

		var doc map[string]any
		require.NoError(t, c.FetchResource(context.Background(), "orgs/octo-org", &doc))
		assert.Equal(t, "octo-org", doc["login"])
	})

	t.Run("should classify client errors", func(t *testing.T) {
		tests := []struct {
			status   int
			expected string
		}{
			{status: http.StatusUnauthorized, expected: "Bad credentials"},
			{status: http.StatusForbidden, expected: "Forbidden"},
			{status: http.StatusNotFound, expected: "Not Found"},
			{status: http.StatusConflict, expected: "Conflict"},
			{status: http.StatusUnprocessableEntity, expected: "Unprocessable Entity"},
		}

		for _, tt := range tests {
			t.Run(tt.expected, func(t *testing.T) {
				c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, tt.status, `{"message":"nope","errors":[{"resource":"Org","field":"name","code":"invalid"}]}`)
				}))

				err := c.FetchResource(context.Background(), "orgs/missing", &map[string]any{})

				var apiErr *types.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.Code)
				assert.Equal(t, tt.expected, apiErr.Status)
				if tt.status == http.StatusNotFound {
					assert.Contains(t, apiErr.Context, "/orgs/missing")
				} else {
					assert.Equal(t, "orgs/missing", apiErr.Context)
				}
			})
		}
	})

	t.Run("should wrap server errors with the resource path", func(t *testing.T) {
		c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadGateway, `{"message":"bad gateway"}`)
		}))

		err := c.FetchResource(context.Background(), "orgs/octo-org", &map[string]any{})

		require.Error(t, err)
		var apiErr *types.APIError
		assert.False(t, errors.As(err, &apiErr))
		assert.Contains(t, err.Error(), "orgs/octo-org")
	})
}

func TestWriteResource(t *testing.T) {
	t.Run("should throttle writes and send the body", func(t *testing.T) {
		limiter := &countingLimiter{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, false, body["allow_squash_merge"])
			writeJSON(w, http.StatusOK, `{"allow_squash_merge":false}`)
		}))
		t.Cleanup(server.Close)
		target, _ := url.Parse(server.URL)
		c, err := NewClient(Options{Hostname: "github.com", Token: "t", Transport: rewriteTransport{target: target}, Limiter: limiter})
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, c.WriteResource(context.Background(), http.MethodPatch, "repos/o/r", map[string]any{"allow_squash_merge": false}, &out))
		assert.Equal(t, int32(1), limiter.calls.Load())
		assert.Equal(t, false, out["allow_squash_merge"])
	})

	t.Run("should accept empty responses", func(t *testing.T) {
		c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		assert.NoError(t, c.WriteResource(context.Background(), http.MethodPut, "orgs/o/actions/permissions", map[string]any{"enabled_repositories": "all"}, nil))
	})
}

func TestFetchPages(t *testing.T) {
	t.Run("should follow the next links", func(t *testing.T) {
		var requests atomic.Int32
		c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			switch r.URL.Query().Get("page") {
			case "":
				w.Header().Set("Link", `<https://api.github.com/orgs/o/repos?per_page=100&page=2>; rel="next"`)
				writeJSON(w, http.StatusOK, `[{"id":1,"name":"a"}]`)
			case "2":
				writeJSON(w, http.StatusOK, `[{"id":2,"name":"b"}]`)
			default:
				t.Errorf("unexpected page %s", r.URL.Query().Get("page"))
			}
		}))

		var pages []string
		err := c.FetchPages(context.Background(), "orgs/o/repos", func(page json.RawMessage) error {
			pages = append(pages, string(page))
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{`[{"id":1,"name":"a"}]`, `[{"id":2,"name":"b"}]`}, pages)
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("should stop when the callback fails", func(t *testing.T) {
		c := newTestClient(t, "github.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Link", `<https://api.github.com/orgs/o/repos?page=2>; rel="next"`)
			writeJSON(w, http.StatusOK, `[]`)
		}))

		stop := fmt.Errorf("stop")
		err := c.FetchPages(context.Background(), "orgs/o/repos", func(json.RawMessage) error { return stop })

		assert.ErrorIs(t, err, stop)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("should require a token", func(t *testing.T) {
		_, err := NewClient(Options{Hostname: "github.com"})
		assert.ErrorContains(t, err, "no token")
	})

	t.Run("should send GraphQL requests to the enterprise endpoint", func(t *testing.T) {
		c := newTestClient(t, "ghes.example.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/graphql", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"data":{"organization":{"id":"O_123"}}}`)
		}))

		id, err := GetOrgID(context.Background(), c, "octo-org")

		require.NoError(t, err)
		assert.Equal(t, "O_123", id)
	})
}
