// Package client is a typed HTTP client for the showcase API. Reads of the
// resource catalog degrade to built-in sample data so a UI or CLI keeps
// working without a backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
	"github.com/yuwenzhijiao/showcase/internal/domain/stat"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger

	mu    sync.Mutex
	token string

	visitMu sync.Mutex
	visited bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithToken presets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 45 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Token returns the bearer token from the last successful Login/Register.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%s %s: unexpected content type %q", method, path, resp.Header.Get("Content-Type"))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &APIError{Status: status}
	if json.Unmarshal(raw, &env) == nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// GetResources lists the catalog. Any failure (transport, non-2xx, non-JSON)
// is logged and answered with the built-in samples.
func (c *Client) GetResources(ctx context.Context) []resource.Resource {
	var items []resource.Resource

	if err := c.do(ctx, http.MethodGet, "/api/resources", nil, &items); err != nil {
		c.log.WarnContext(ctx, "falling back to local mock data", "err", err)
		return resource.Samples()
	}

	if items == nil {
		items = []resource.Resource{}
	}
	return items
}

// SaveResource creates a resource and returns the refreshed catalog, or an
// empty list when the create fails.
func (c *Client) SaveResource(ctx context.Context, req resource.CreateRequest) []resource.Resource {
	if err := c.do(ctx, http.MethodPost, "/api/resources", req, nil); err != nil {
		c.log.ErrorContext(ctx, "failed to save resource", "err", err)
		return []resource.Resource{}
	}

	return c.GetResources(ctx)
}

type mutationResponse struct {
	Success  bool              `json:"success"`
	Resource resource.Resource `json:"resource"`
}

func (c *Client) UpdateResource(ctx context.Context, req resource.UpdateRequest) (resource.Resource, error) {
	var out mutationResponse
	if err := c.do(ctx, http.MethodPut, "/api/resources", req, &out); err != nil {
		return resource.Resource{}, err
	}
	return out.Resource, nil
}

func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/resources?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) VisitorCount(ctx context.Context) (int64, error) {
	var out stat.VisitorCountResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return 0, err
	}
	return out.VisitorCount, nil
}

// TrackVisit counts this client as one visitor. Only the first successful
// call increments; later calls just read the counter.
func (c *Client) TrackVisit(ctx context.Context) (int64, error) {
	c.visitMu.Lock()
	defer c.visitMu.Unlock()

	if c.visited {
		return c.VisitorCount(ctx)
	}

	var out stat.VisitorCountResponse
	if err := c.do(ctx, http.MethodPost, "/api/stats", nil, &out); err != nil {
		return 0, err
	}

	c.visited = true

	return out.VisitorCount, nil
}

type AuthResult struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Token   string `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return c.authenticate(ctx, "login", email, password)
}

func (c *Client) Register(ctx context.Context, email, password string) (AuthResult, error) {
	return c.authenticate(ctx, "register", email, password)
}

func (c *Client) authenticate(ctx context.Context, action, email, password string) (AuthResult, error) {
	in := map[string]string{"action": action, "email": email, "password": password}

	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth", in, &out); err != nil {
		return AuthResult{}, err
	}

	c.setToken(out.Token)
	return out, nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}
