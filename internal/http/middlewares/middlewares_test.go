package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuwenzhijiao/showcase/internal/auth"
	"github.com/yuwenzhijiao/showcase/internal/http/middlewares"
	"github.com/yuwenzhijiao/showcase/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

type brokenStore struct{}

func (brokenStore) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("redis: connection refused")
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.POST("/chat", middlewares.RateLimit(ratelimit.NewMemoryStore(1, time.Minute), middlewares.KeyByIP, log), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.POST("/chat", middlewares.RateLimit(brokenStore{}, middlewares.KeyByIP, log), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthAndRole(t *testing.T) {
	jwt := auth.NewManager("mw-secret", time.Hour)
	am := middlewares.NewAuthMiddleware(jwt)

	r := gin.New()
	r.DELETE("/admin", am.RequireAuth(), am.RequireRole("admin"), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.String(http.StatusOK, id)
	})

	userToken, err := jwt.GenerateAccessToken("u-1", "u@example.com", "user")
	require.NoError(t, err)
	adminToken, err := jwt.GenerateAccessToken("u-2", "a@example.com", "admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not_bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "wrong_role", header: "Bearer " + userToken, wantStatus: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u-2", w.Body.String())
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequireJSON())
	r.POST("/x", ok)

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "json", body: `{}`, contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "empty_body", body: "", contentType: "", wantStatus: http.StatusOK},
		{name: "form", body: "a=b", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing_type", body: `{}`, contentType: "", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSecurityHeaders_DocsGetRelaxedCSP(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.SecurityHeaders(true))
	r.GET("/docs", ok)
	r.GET("/api/resources", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resources", nil))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://unpkg.com")
}

func TestIdentifyIfPresent_RateLimitsPerUser(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwt := auth.NewManager("mw-secret", time.Hour)
	am := middlewares.NewAuthMiddleware(jwt)

	r := gin.New()
	r.POST("/chat", am.IdentifyIfPresent(), middlewares.RateLimit(ratelimit.NewMemoryStore(1, time.Minute), middlewares.KeyByUserOrIP, log), ok)

	alice, err := jwt.GenerateAccessToken("u-alice", "alice@example.com", "user")
	require.NoError(t, err)
	bob, err := jwt.GenerateAccessToken("u-bob", "bob@example.com", "user")
	require.NoError(t, err)

	steps := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "alice_first", header: "Bearer " + alice, wantStatus: http.StatusOK},
		{name: "alice_again", header: "Bearer " + alice, wantStatus: http.StatusTooManyRequests},
		{name: "bob_same_ip", header: "Bearer " + bob, wantStatus: http.StatusOK},
		{name: "anonymous", header: "", wantStatus: http.StatusOK},
		{name: "anonymous_again", header: "", wantStatus: http.StatusTooManyRequests},
		{name: "bad_token_uses_ip", header: "Bearer nope", wantStatus: http.StatusTooManyRequests},
	}

	// steps share one limiter, so they run in order
	for _, step := range steps {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		if step.header != "" {
			req.Header.Set("Authorization", step.header)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, step.wantStatus, w.Code, step.name)
	}
}

func TestAbortEnvelopeCarriesRequestID(t *testing.T) {
	jwt := auth.NewManager("mw-secret", time.Hour)
	am := middlewares.NewAuthMiddleware(jwt)

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.DELETE("/admin", am.RequireAuth(), am.RequireRole("admin"), ok)

	token, err := jwt.GenerateAccessToken("u-1", "u@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(middlewares.RequestIDHeader, "rid-42")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body.Error.Code)
	assert.Equal(t, "admin role required", body.Error.Message)
	assert.Equal(t, "rid-42", body.Error.RequestID)
}
