package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnauthorized is matched by errors.Is when the backend rejected the
// credential (401 or 403).
var ErrUnauthorized = errors.New("unauthorized")

// StatusError reports a non-2xx response.
type StatusError struct {
	Path   string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Unwrap exposes ErrUnauthorized for credential failures.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Credentials supplies the bearer token and is told when the backend
// rejects it. *auth.Session implements it.
type Credentials interface {
	Token() string
	Invalidate(token string) bool
}

// Action is a container lifecycle operation.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// Backend is the surface the UI and poller depend on.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	FetchStatus(ctx context.Context) ([]Service, error)
	Control(ctx context.Context, id string, action Action) error
	FetchLogs(ctx context.Context, id string, lines int) (string, error)
	Exec(ctx context.Context, id, command string) (ExecResult, error)
	ListStacks(ctx context.Context) ([]StackSummary, error)
	StackDetail(ctx context.Context, id string) (StackDetail, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the peke backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	creds     Credentials
}

const (
	defaultAPIURL    = "127.0.0.1:8000"
	defaultUserAgent = "peke/0.1"
	requestTimeout   = 15 * time.Second
)

// NewClient builds a Client for apiURL. creds may be nil for anonymous use.
func NewClient(apiURL string, creds Credentials) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		creds:     creds,
	}, nil
}

// Login exchanges a username and password for an access token. A rejected
// login returns ErrUnauthorized but never invalidates the session.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := request{
		method:      http.MethodPost,
		rel:         &url.URL{Path: "/api/login"},
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		anonymous:   true,
	}
	var payload LoginResponse
	if err := c.send(ctx, req, &payload); err != nil {
		return "", err
	}
	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return token, nil
}

// FetchStatus lists every service container.
func (c *Client) FetchStatus(ctx context.Context) ([]Service, error) {
	var payload []Service
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Control starts, stops or restarts a container.
func (c *Client) Control(ctx context.Context, id string, action Action) error {
	switch action {
	case ActionStart, ActionStop, ActionRestart:
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("container id required")
	}
	return c.do(ctx, http.MethodPost, containerPath(id, string(action)), nil, nil)
}

// FetchLogs returns the last lines of a container's log.
func (c *Client) FetchLogs(ctx context.Context, id string, lines int) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("container id required")
	}
	values := url.Values{}
	if lines > 0 {
		values.Set("lines", strconv.Itoa(lines))
	}
	rel := &url.URL{Path: containerPath(id, "logs"), RawQuery: values.Encode()}
	var payload LogsResponse
	if err := c.send(ctx, request{method: http.MethodGet, rel: rel}, &payload); err != nil {
		return "", err
	}
	return payload.Logs, nil
}

// Exec runs command inside the container.
func (c *Client) Exec(ctx context.Context, id, command string) (ExecResult, error) {
	if strings.TrimSpace(id) == "" {
		return ExecResult{}, fmt.Errorf("container id required")
	}
	var payload ExecResult
	if err := c.do(ctx, http.MethodPost, containerPath(id, "exec"), ExecRequest{Command: command}, &payload); err != nil {
		return ExecResult{}, err
	}
	return payload, nil
}

// ListStacks returns the compose stacks known to the backend.
func (c *Client) ListStacks(ctx context.Context) ([]StackSummary, error) {
	var payload StackListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/stacks", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Stacks, nil
}

// StackDetail returns one stack with per-container metrics.
func (c *Client) StackDetail(ctx context.Context, id string) (StackDetail, error) {
	if strings.TrimSpace(id) == "" {
		return StackDetail{}, fmt.Errorf("stack id required")
	}
	var payload StackDetail
	if err := c.do(ctx, http.MethodGet, "/api/v2/stacks/"+url.PathEscape(id), nil, &payload); err != nil {
		return StackDetail{}, err
	}
	return payload, nil
}

func containerPath(id, suffix string) string {
	return "/api/containers/" + url.PathEscape(id) + "/" + suffix
}

type request struct {
	method      string
	rel         *url.URL
	body        io.Reader
	contentType string
	anonymous   bool
}

func (c *Client) do(ctx context.Context, method, path string, in, dest any) error {
	req := request{method: method, rel: &url.URL{Path: path}}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return c.send(ctx, req, dest)
}

func (c *Client) send(ctx context.Context, r request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(r.rel)
	req, err := http.NewRequestWithContext(ctx, r.method, reqURL.String(), r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	var token string
	if !r.anonymous && c.creds != nil {
		token = c.creds.Token()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		statusErr := &StatusError{Path: r.rel.Path, Code: resp.StatusCode, Detail: readDetail(resp.Body)}
		if errors.Is(statusErr, ErrUnauthorized) && token != "" {
			c.creds.Invalidate(token)
		}
		return statusErr
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var parsed errorBody
	if json.Unmarshal(data, &parsed) == nil {
		return strings.TrimSpace(parsed.Detail)
	}
	return ""
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
