package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/shurcooL/githubv4"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const perPage = 100

var linkRE = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// GitHubClient defines the API operations used by the resource functions.
// This interface allows for easy faking in tests.
type GitHubClient interface {
	// Host returns the configured hostname
	Host() string
	FetchResource(ctx context.Context, path string, out any) error
	WriteResource(ctx context.Context, method, path string, body, out any) error
	FetchPages(ctx context.Context, path string, fn func(page json.RawMessage) error) error
	Query(ctx context.Context, q any, variables map[string]any) error
	Mutate(ctx context.Context, m any, input githubv4.Input, variables map[string]any) error
}

// Limiter throttles write calls
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewWriteLimiter returns the default throttle of one write per second
func NewWriteLimiter() Limiter {
	return rate.NewLimiter(rate.Every(time.Second), 1)
}

// Options configures a Client
type Options struct {
	Hostname  string
	Token     string
	Transport http.RoundTripper
	Limiter   Limiter
	Log       io.Writer
}

// AppCredentials identify a GitHub App installation
type AppCredentials struct {
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
}

// Client wraps the gh REST client and the GitHub GraphQL client
type Client struct {
	hostname string
	rest     *api.RESTClient
	graphql  *githubv4.Client
	limiter  Limiter
}

// Ensure Client implements GitHubClient.
var _ GitHubClient = (*Client)(nil)

// NewClient creates a client for the host and token in opts
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("no token available for host %s", Hostname(opts.Hostname))
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewWriteLimiter()
	}

	restOpts := api.ClientOptions{
		Host:      Hostname(opts.Hostname),
		AuthToken: opts.Token,
		Transport: transport,
		Headers: map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		},
	}
	if opts.Log != nil {
		restOpts.Log = opts.Log
		restOpts.LogIgnoreEnv = true
	}
	rest, err := api.NewRESTClient(restOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: transport})
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))

	var graphql *githubv4.Client
	if IsCloud(opts.Hostname) {
		graphql = githubv4.NewClient(httpClient)
	} else {
		graphql = githubv4.NewEnterpriseClient(GraphQLEndpoint(opts.Hostname), httpClient)
	}

	logger.Debugf("Created client for %s (REST %s)", Hostname(opts.Hostname), RESTEndpoint(opts.Hostname))
	return &Client{
		hostname: opts.Hostname,
		rest:     rest,
		graphql:  graphql,
		limiter:  limiter,
	}, nil
}

// InstallationToken mints an installation access token for a GitHub App
func InstallationToken(ctx context.Context, hostname string, creds AppCredentials, transport http.RoundTripper) (string, error) {
	if transport == nil {
		transport = http.DefaultTransport
	}
	itr, err := ghinstallation.New(transport, creds.AppID, creds.InstallationID, creds.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	if !IsCloud(hostname) {
		itr.BaseURL = RESTEndpoint(hostname)
	}
	token, err := itr.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token: %w", err)
	}
	return token, nil
}

// Host returns the configured hostname
func (c *Client) Host() string {
	return c.hostname
}

// FetchResource issues a GET request and decodes the response into out
func (c *Client) FetchResource(ctx context.Context, path string, out any) error {
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, out); err != nil {
		return classify(path, err)
	}
	return nil
}

// WriteResource issues a throttled write request. A nil body sends no payload
// and a nil out discards the response.
func (c *Client) WriteResource(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	logger.Debugf("%s %s", method, path)
	if out == nil {
		resp, err := c.rest.RequestWithContext(ctx, method, path, reader)
		if err != nil {
			return classify(path, err)
		}
		_ = resp.Body.Close()
		return nil
	}
	if err := c.rest.DoWithContext(ctx, method, path, reader, out); err != nil {
		return classify(path, err)
	}
	return nil
}

// FetchPages follows the Link header of a paginated resource, passing each
// page body to fn until the last page is reached
func (c *Client) FetchPages(ctx context.Context, path string, fn func(page json.RawMessage) error) error {
	next := withPerPage(path)
	for next != "" {
		resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return classify(path, err)
		}

		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := fn(data); err != nil {
			return err
		}
		next = nextPage(resp.Header.Get("Link"))
	}
	return nil
}

// Query executes a GraphQL query
func (c *Client) Query(ctx context.Context, q any, variables map[string]any) error {
	if err := c.graphql.Query(ctx, q, variables); err != nil {
		return fmt.Errorf("GraphQL query failed: %w", err)
	}
	return nil
}

// Mutate executes a throttled GraphQL mutation
func (c *Client) Mutate(ctx context.Context, m any, input githubv4.Input, variables map[string]any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.graphql.Mutate(ctx, m, input, variables); err != nil {
		return fmt.Errorf("GraphQL mutation failed: %w", err)
	}
	return nil
}

func withPerPage(path string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	if q.Get("per_page") == "" {
		q.Set("per_page", fmt.Sprint(perPage))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func nextPage(link string) string {
	for _, m := range linkRE.FindAllStringSubmatch(link, -1) {
		if len(m) > 2 && m[2] == "next" {
			return m[1]
		}
	}
	return ""
}
